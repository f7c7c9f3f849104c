package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/gagliardetto/solana-go"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []batch.Report {
	authority := solana.SystemProgramID
	return []batch.Report{
		{
			Index: 0, Label: "SPL Token Program", Key: solana.TokenProgramID.String(),
			Result: &fetcher.FetchResult{
				Key:      solana.TokenProgramID,
				Endpoint: "primary",
				View: fetcher.AccountView{
					Kind:       enum.ViewParsed,
					Slot:       7,
					Lamports:   1_461_600,
					Owner:      solana.SystemProgramID,
					Executable: true,
					Parsed:     json.RawMessage(`{"program":"bpf-upgradeable-loader","space":36}`),
				},
			},
		},
		{
			Index: 1, Label: "USDC Mint", Key: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			Result: &fetcher.FetchResult{
				Endpoint: "fallback-1",
				View: fetcher.AccountView{
					Kind:     enum.ViewRaw,
					Lamports: 2_039_280,
					Owner:    solana.TokenProgramID,
					Data:     make([]byte, 82),
				},
				Mint: &fetcher.MintRecord{Decimals: 6, Supply: 1_000_000, IsInitialized: true, FreezeAuthority: &authority},
			},
		},
		{
			Index: 2, Label: "Memo Program", Key: solana.MemoProgramID.String(),
			Result: &fetcher.FetchResult{
				Endpoint: "primary",
				View:     fetcher.AccountView{Kind: enum.ViewRaw, Owner: solana.SystemProgramID, Data: []byte{1, 2, 3}},
				MintErr:  fmt.Errorf("%w: length 3, want 82", fetcher.ErrDecodeMismatch),
			},
		},
		{
			Index: 3, Label: "Missing", Key: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			Result: &fetcher.FetchResult{Endpoint: "primary", View: fetcher.AccountView{Kind: enum.ViewNotFound}},
		},
		{
			Index: 4, Label: "Broken", Key: "0OIl",
			Err: fmt.Errorf("%w: %q", fetcher.ErrInvalidKey, "0OIl"),
		},
	}
}

func writeAll(t *testing.T, format enum.OutputFormat) string {
	t.Helper()
	var buf bytes.Buffer
	sink, err := New(format, &buf, true)
	require.NoError(t, err)
	for _, r := range sampleReports() {
		require.NoError(t, sink.Write(context.Background(), r))
	}
	return buf.String()
}

func TestText(t *testing.T) {
	out := writeAll(t, enum.OutputText)

	assert.Contains(t, out, "=== SPL Token Program ("+solana.TokenProgramID.String()+") ===")
	assert.Contains(t, out, `"program": "bpf-upgradeable-loader"`)
	assert.Contains(t, out, "0.0014616 SOL")
	assert.Regexp(t, `program\s+bpf-upgradeable-loader`, out)

	assert.Contains(t, out, "=== USDC Mint (EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v) ===")
	assert.Contains(t, out, "data_len")
	assert.Contains(t, out, "ui_supply")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, solana.SystemProgramID.String())

	assert.Contains(t, out, "not decodable as a mint: length 3, want 82")
	assert.Contains(t, out, "account not found")
	assert.Contains(t, out, "error: invalid account key")

	// headers appear in input order
	assert.Less(t, strings.Index(out, "SPL Token Program"), strings.Index(out, "USDC Mint"))
	assert.Less(t, strings.Index(out, "Missing"), strings.Index(out, "Broken"))
}

func TestJSONLines(t *testing.T) {
	out := writeAll(t, enum.OutputJSON)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)

	var docs []Document
	for _, l := range lines {
		var d Document
		require.NoError(t, json.Unmarshal([]byte(l), &d))
		docs = append(docs, d)
	}

	assert.Equal(t, "parsed", docs[0].Kind)
	assert.Equal(t, "bpf-upgradeable-loader", docs[0].Program)
	assert.Empty(t, docs[1].Program)
	assert.Equal(t, "bpf-upgradeable-loader", docs[0].Parsed.(map[string]any)["program"])
	assert.Nil(t, docs[0].DataLen)

	require.NotNil(t, docs[1].Mint)
	assert.Equal(t, "1", docs[1].Mint.UISupply)
	assert.Equal(t, solana.SystemProgramID.String(), docs[1].Mint.FreezeAuthority)
	assert.Empty(t, docs[1].Mint.MintAuthority)
	require.NotNil(t, docs[1].DataLen)
	assert.Equal(t, 82, *docs[1].DataLen)

	assert.Contains(t, docs[2].MintError, "not decodable as a mint")
	assert.Equal(t, "AQID", docs[2].Data)

	assert.Equal(t, "not_found", docs[3].Kind)
	assert.Empty(t, docs[3].Owner)

	assert.Contains(t, docs[4].Error, "invalid account key")
	assert.Equal(t, 4, docs[4].Index)
}

func TestYAML(t *testing.T) {
	out := writeAll(t, enum.OutputYAML)
	parts := strings.Split(out, "---\n")
	require.Len(t, parts, 5)

	var d Document
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &d))
	assert.Equal(t, "USDC Mint", d.Label)
	require.NotNil(t, d.Mint)
	assert.Equal(t, uint8(6), d.Mint.Decimals)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, true)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals int32
		want     string
	}{
		{1_000_000, 6, "1"},
		{1_461_600, 9, "0.0014616"},
		{0, 9, "0"},
		{18_446_744_073_709_551_615, 9, "18446744073.709551615"},
		{5, 0, "5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.decimals))
	}
}
