package batch

import (
	"context"
	"log/slog"

	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/pkg/common/config"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/samber/lo"
)

// Entry is one account to fetch.
type Entry struct {
	Label        string
	Key          string
	DecodeAsMint bool
}

// Report is the outcome for one Entry. Exactly one of Result and Err is set.
type Report struct {
	Index  int
	Label  string
	Key    string
	Result *fetcher.FetchResult
	Err    error
}

// Sink receives every report in order. Errors are logged by the driver.
type Sink interface {
	Write(ctx context.Context, r Report) error
}

// AccountFetcher is satisfied by *fetcher.Fetcher.
type AccountFetcher interface {
	FetchString(ctx context.Context, key string, commitment enum.Commitment, decodeAsMint bool) (*fetcher.FetchResult, error)
}

type Driver struct {
	fetcher    AccountFetcher
	commitment enum.Commitment
	sinks      []Sink
	logger     *slog.Logger
}

func NewDriver(f AccountFetcher, commitment enum.Commitment, sinks ...Sink) *Driver {
	return &Driver{
		fetcher:    f,
		commitment: commitment,
		sinks:      lo.Filter(sinks, func(s Sink, _ int) bool { return s != nil }),
		logger:     logger.With("component", "batch"),
	}
}

// EntriesFromConfig keeps the configured order.
func EntriesFromConfig(accounts []config.Account) []Entry {
	return lo.Map(accounts, func(a config.Account, _ int) Entry {
		return Entry{Label: a.Label, Key: a.Pubkey, DecodeAsMint: a.DecodeAsMint}
	})
}

// Run fetches entries one at a time and returns one report per entry, in
// input order. A failed entry does not stop the batch.
func (d *Driver) Run(ctx context.Context, entries []Entry) []Report {
	reports := make([]Report, 0, len(entries))
	for r := range d.Start(ctx, entries) {
		reports = append(reports, r)
	}
	return reports
}

// Start runs the batch on its own goroutine and streams reports in input
// order. The channel is closed after the last report. Once ctx is done the
// remaining entries are reported with the context error without being fetched.
// Callers must drain the channel.
func (d *Driver) Start(ctx context.Context, entries []Entry) <-chan Report {
	out := make(chan Report)
	go func() {
		defer close(out)
		for i, e := range entries {
			var r Report
			if err := ctx.Err(); err != nil {
				r = Report{Index: i, Label: e.Label, Key: e.Key, Err: err}
			} else {
				r = d.fetchOne(ctx, i, e)
			}
			d.deliver(ctx, r)
			out <- r
		}
	}()
	return out
}

func (d *Driver) fetchOne(ctx context.Context, i int, e Entry) Report {
	r := Report{Index: i, Label: e.Label, Key: e.Key}
	res, err := d.fetcher.FetchString(ctx, e.Key, d.commitment, e.DecodeAsMint)
	if err != nil {
		d.logger.Error("Fetch failed", "label", e.Label, "key", e.Key, "error", err)
		r.Err = err
		return r
	}
	d.logger.Debug("Fetched account",
		"label", e.Label,
		"kind", res.View.Kind,
		"endpoint", res.Endpoint)
	r.Result = res
	return r
}

// deliver runs after ctx may have been cancelled, so sinks get a context
// that is never done.
func (d *Driver) deliver(ctx context.Context, r Report) {
	sinkCtx := context.WithoutCancel(ctx)
	for _, s := range d.sinks {
		if err := s.Write(sinkCtx, r); err != nil {
			d.logger.Warn("Sink write failed", "label", r.Label, "error", err)
		}
	}
}
