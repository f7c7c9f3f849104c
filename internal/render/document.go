package render

import (
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

const lamportsDecimals = 9

// Document is the machine readable form of a report, shared by the json and
// yaml renderers.
type Document struct {
	Index      int      `json:"index"                yaml:"index"`
	Label      string   `json:"label"                yaml:"label"`
	Key        string   `json:"key"                  yaml:"key"`
	Endpoint   string   `json:"endpoint,omitempty"   yaml:"endpoint,omitempty"`
	Kind       string   `json:"kind,omitempty"       yaml:"kind,omitempty"`
	Program    string   `json:"program,omitempty"    yaml:"program,omitempty"`
	Slot       uint64   `json:"slot,omitempty"       yaml:"slot,omitempty"`
	Lamports   uint64   `json:"lamports,omitempty"   yaml:"lamports,omitempty"`
	SOL        string   `json:"sol,omitempty"        yaml:"sol,omitempty"`
	Owner      string   `json:"owner,omitempty"      yaml:"owner,omitempty"`
	Executable bool     `json:"executable,omitempty" yaml:"executable,omitempty"`
	DataLen    *int     `json:"data_len,omitempty"   yaml:"data_len,omitempty"`
	Data       string   `json:"data,omitempty"       yaml:"data,omitempty"`
	Parsed     any      `json:"parsed,omitempty"     yaml:"parsed,omitempty"`
	Mint       *MintDoc `json:"mint,omitempty"       yaml:"mint,omitempty"`
	MintError  string   `json:"mint_error,omitempty" yaml:"mint_error,omitempty"`
	Error      string   `json:"error,omitempty"      yaml:"error,omitempty"`
}

type MintDoc struct {
	Decimals        uint8  `json:"decimals"                   yaml:"decimals"`
	Supply          uint64 `json:"supply"                     yaml:"supply"`
	UISupply        string `json:"ui_supply"                  yaml:"ui_supply"`
	IsInitialized   bool   `json:"is_initialized"             yaml:"is_initialized"`
	MintAuthority   string `json:"mint_authority,omitempty"   yaml:"mint_authority,omitempty"`
	FreezeAuthority string `json:"freeze_authority,omitempty" yaml:"freeze_authority,omitempty"`
}

func NewDocument(r batch.Report) Document {
	doc := Document{Index: r.Index, Label: r.Label, Key: r.Key}
	if r.Err != nil {
		doc.Error = r.Err.Error()
		return doc
	}

	res := r.Result
	doc.Endpoint = res.Endpoint
	doc.Kind = string(res.View.Kind)
	if !res.Found() {
		return doc
	}

	v := res.View
	doc.Slot = v.Slot
	doc.Lamports = v.Lamports
	doc.SOL = FormatSOL(v.Lamports)
	doc.Owner = v.Owner.String()
	doc.Executable = v.Executable

	switch v.Kind {
	case enum.ViewParsed:
		doc.Program = v.Program()
		var parsed any
		if err := json.Unmarshal(v.Parsed, &parsed); err == nil {
			doc.Parsed = parsed
		}
	case enum.ViewRaw:
		n := len(v.Data)
		doc.DataLen = &n
		doc.Data = base64.StdEncoding.EncodeToString(v.Data)
	}

	if res.Mint != nil {
		doc.Mint = newMintDoc(res.Mint)
	}
	if res.MintErr != nil {
		doc.MintError = res.MintErr.Error()
	}
	return doc
}

func newMintDoc(m *fetcher.MintRecord) *MintDoc {
	return &MintDoc{
		Decimals:        m.Decimals,
		Supply:          m.Supply,
		UISupply:        FormatAmount(m.Supply, int32(m.Decimals)),
		IsInitialized:   m.IsInitialized,
		MintAuthority:   optionalKey(m.MintAuthority),
		FreezeAuthority: optionalKey(m.FreezeAuthority),
	}
}

func optionalKey(k *solana.PublicKey) string {
	if k == nil {
		return ""
	}
	return k.String()
}

// FormatAmount renders amount scaled down by 10^decimals without rounding.
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

func FormatSOL(lamports uint64) string {
	return FormatAmount(lamports, lamportsDecimals)
}
