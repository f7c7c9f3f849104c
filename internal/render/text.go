package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/olekukonko/tablewriter"
)

// Text is the human readable renderer.
type Text struct {
	mu      sync.Mutex
	w       io.Writer
	header  lipgloss.Style
	warning lipgloss.Style
	plain   bool
}

func NewText(w io.Writer, noColor bool) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w: w,
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("#FF6347")),
		plain: noColor,
	}
}

func (t *Text) style(s lipgloss.Style, text string) string {
	if t.plain {
		return text
	}
	return s.Render(text)
}

func (t *Text) Write(_ context.Context, r batch.Report) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, t.style(t.header, fmt.Sprintf("=== %s (%s) ===", r.Label, r.Key)))

	switch {
	case r.Err != nil:
		fmt.Fprintln(&buf, t.style(t.warning, "error: "+r.Err.Error()))
	case !r.Result.Found():
		fmt.Fprintf(&buf, "account not found (endpoint %s)\n", r.Result.Endpoint)
	default:
		if err := t.writeResult(&buf, r.Result); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.w.Write(buf.Bytes())
	return err
}

func (t *Text) writeResult(buf *bytes.Buffer, res *fetcher.FetchResult) error {
	v := res.View
	fmt.Fprintf(buf, "endpoint: %s  slot: %d  view: %s\n", res.Endpoint, v.Slot, v.Kind)

	rows := [][]string{
		{"lamports", fmt.Sprintf("%d (%s SOL)", v.Lamports, FormatSOL(v.Lamports))},
		{"owner", v.Owner.String()},
		{"executable", strconv.FormatBool(v.Executable)},
	}
	if v.Kind == enum.ViewRaw {
		rows = append(rows, []string{"data_len", strconv.Itoa(len(v.Data))})
	}
	if program := v.Program(); program != "" {
		rows = append(rows, []string{"program", program})
	}
	writeTable(buf, rows)

	if v.Kind == enum.ViewParsed {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, v.Parsed, "", "  "); err != nil {
			return fmt.Errorf("indent parsed account: %w", err)
		}
		buf.Write(pretty.Bytes())
		buf.WriteByte('\n')
	}

	switch {
	case res.Mint != nil:
		m := newMintDoc(res.Mint)
		fmt.Fprintln(buf, "mint:")
		writeTable(buf, [][]string{
			{"decimals", strconv.Itoa(int(m.Decimals))},
			{"supply", strconv.FormatUint(m.Supply, 10)},
			{"ui_supply", m.UISupply},
			{"is_initialized", strconv.FormatBool(m.IsInitialized)},
			{"mint_authority", orNone(m.MintAuthority)},
			{"freeze_authority", orNone(m.FreezeAuthority)},
		})
	case res.MintErr != nil:
		fmt.Fprintln(buf, t.style(t.warning, res.MintErr.Error()))
	}
	return nil
}

func writeTable(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
