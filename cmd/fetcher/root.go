package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/internal/render"
	"github.com/fystack/solana-account-fetcher/internal/rpc"
	"github.com/fystack/solana-account-fetcher/pkg/common/config"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/fystack/solana-account-fetcher/pkg/events"
	"github.com/fystack/solana-account-fetcher/pkg/infra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFile    string
	rpcURLs    []string
	commitment string
	output     string
	accounts   []string
	debug      bool
	async      bool
	noColor    bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "fetcher",
		Short: "Fetch Solana accounts with parsed view, raw fallback and mint decoding.",
		Long: `fetcher reads a list of Solana accounts from one or more JSON-RPC endpoints.
Each account is requested in jsonParsed encoding first; accounts the server
cannot parse are fetched again as raw bytes and, when asked, decoded as an
SPL Token mint. Endpoints are tried in order until one answers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			logger.Init(&logger.Options{Level: level, NoColor: opts.noColor})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), opts, stdout)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load when present")
	flags.StringArrayVar(&opts.rpcURLs, "rpc", nil, "RPC endpoint URL, repeat for fallbacks (first is primary)")
	flags.StringVar(&opts.commitment, "commitment", "", "processed, confirmed or finalized")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logs")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: text, json or yaml")
	cmd.Flags().StringArrayVarP(&opts.accounts, "account", "a", nil, "account to fetch as label=pubkey[,mint], repeatable")
	cmd.Flags().BoolVar(&opts.async, "async", false, "stream reports from a background fetch")

	cmd.AddCommand(newDecodeMintCmd(stdout), newEndpointsCmd(opts, stdout))
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}

	ov := &config.Overrides{
		RPCURLs:    opts.rpcURLs,
		Commitment: enum.Commitment(opts.commitment),
		Output:     enum.OutputFormat(opts.output),
	}
	for _, a := range opts.accounts {
		acc, err := config.ParseAccountFlag(a)
		if err != nil {
			return nil, err
		}
		ov.Accounts = append(ov.Accounts, acc)
	}
	return config.Load(opts.configPath, ov)
}

func runFetch(ctx context.Context, opts *rootOptions, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	endpoints, err := rpc.NewSolanaFailover(cfg.Nodes, cfg.Client, nil)
	if err != nil {
		return fmt.Errorf("build endpoints: %w", err)
	}
	f := fetcher.New(endpoints)

	out, err := render.New(cfg.Output.Format, stdout, opts.noColor || cfg.Output.NoColor)
	if err != nil {
		return err
	}
	sinks := []batch.Sink{out}

	if cfg.NATS.Enabled {
		nc, err := infra.GetNATSConnection(cfg.NATS, cfg.Environment)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		emitter := events.NewEmitter(nc, cfg.NATS.Subject)
		defer emitter.Close()
		sinks = append(sinks, batch.NewEventSink(emitter))
		logger.Info("Publishing reports to NATS", "subject", cfg.NATS.Subject)
	}

	logger.Info("Fetching accounts",
		"accounts", len(cfg.Accounts),
		"endpoints", len(cfg.Nodes),
		"commitment", cfg.Commitment)

	driver := batch.NewDriver(f, cfg.Commitment, sinks...)
	entries := batch.EntriesFromConfig(cfg.Accounts)

	start := time.Now()
	var reports []batch.Report
	if opts.async {
		for r := range driver.Start(ctx, entries) {
			logger.Debug("Report received", "index", r.Index, "label", r.Label)
			reports = append(reports, r)
		}
	} else {
		reports = driver.Run(ctx, entries)
	}

	failed := lo.CountBy(reports, func(r batch.Report) bool { return r.Err != nil })
	missing := lo.CountBy(reports, func(r batch.Report) bool { return r.Err == nil && !r.Result.Found() })
	logger.Info("Batch finished",
		"total", len(reports),
		"failed", failed,
		"not_found", missing,
		"elapsed", time.Since(start).Round(time.Millisecond))
	logger.Debug("Failover metrics", "metrics", f.Metrics())
	return nil
}
