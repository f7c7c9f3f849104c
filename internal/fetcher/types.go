package fetcher

import (
	"encoding/json"

	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/gagliardetto/solana-go"
)

// AccountView is the outcome of a completed fetch. Kind selects which fields
// are meaningful: Parsed for ViewParsed, Data for ViewRaw, nothing beyond Kind
// for ViewNotFound.
type AccountView struct {
	Kind       enum.ViewKind
	Slot       uint64
	Lamports   uint64
	Owner      solana.PublicKey
	Executable bool
	Parsed     json.RawMessage
	Data       []byte
}

// Program returns the "program" field of a parsed document, if any.
func (v AccountView) Program() string {
	if v.Kind != enum.ViewParsed || len(v.Parsed) == 0 {
		return ""
	}
	var doc struct {
		Program string `json:"program"`
	}
	if err := json.Unmarshal(v.Parsed, &doc); err != nil {
		return ""
	}
	return doc.Program
}

type FetchResult struct {
	Key      solana.PublicKey
	Endpoint string // name of the provider that answered
	View     AccountView
	Mint     *MintRecord
	MintErr  error // wraps ErrDecodeMismatch; never fails the fetch
}

func (r *FetchResult) Found() bool {
	return r != nil && r.View.Kind != enum.ViewNotFound
}
