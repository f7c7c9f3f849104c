package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/internal/render"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newDecodeMintCmd(stdout io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decode-mint <base64|hex>",
		Short: "Decode local account bytes as an SPL Token mint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeBytes(args[0])
			if err != nil {
				return err
			}
			mint, err := fetcher.DecodeMint(data)
			if err != nil {
				return err
			}

			sink, err := render.New(enum.OutputFormat(output), stdout, true)
			if err != nil {
				return err
			}
			return sink.Write(cmd.Context(), batch.Report{
				Label: "decode-mint",
				Key:   fmt.Sprintf("%d bytes", len(data)),
				Result: &fetcher.FetchResult{
					Endpoint: "local",
					View:     fetcher.AccountView{Kind: enum.ViewRaw, Data: data},
					Mint:     mint,
				},
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(enum.OutputText), "output format: text, json or yaml")
	return cmd
}

// decodeBytes accepts hex (optionally 0x prefixed) or standard base64.
func decodeBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if h := strings.TrimPrefix(s, "0x"); len(h)%2 == 0 {
		if b, err := hex.DecodeString(h); err == nil {
			return b, nil
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("input is neither hex nor base64: %w", err)
	}
	return b, nil
}

func newEndpointsCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Print the resolved endpoint list in call order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(stdout)
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"#", "Name", "URL", "Headers"})
			for i, n := range cfg.Nodes {
				headers := lo.Keys(n.Headers)
				sort.Strings(headers)
				table.Append([]string{
					fmt.Sprint(i),
					n.Name,
					n.Redacted(),
					strings.Join(headers, ","),
				})
			}
			table.Render()
			return nil
		},
	}
}
