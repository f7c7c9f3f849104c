package batch

import (
	"context"
	"time"

	"github.com/fystack/solana-account-fetcher/internal/fetcher"
	"github.com/fystack/solana-account-fetcher/pkg/events"
)

// EventSink publishes each report through an events.Emitter.
type EventSink struct {
	emitter events.Emitter
}

func NewEventSink(emitter events.Emitter) *EventSink {
	return &EventSink{emitter: emitter}
}

func (s *EventSink) Write(_ context.Context, r Report) error {
	return s.emitter.EmitAccount(r.Event(time.Now()))
}

// Event flattens the report into its published form.
func (r Report) Event(at time.Time) events.AccountEvent {
	ev := events.AccountEvent{
		Type:      events.AccountEventType,
		Label:     r.Label,
		Key:       r.Key,
		Timestamp: at.UTC().Unix(),
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
		return ev
	}

	res := r.Result
	ev.Endpoint = res.Endpoint
	ev.Kind = string(res.View.Kind)
	if !res.Found() {
		return ev
	}
	ev.Program = res.View.Program()
	ev.Slot = res.View.Slot
	ev.Lamports = res.View.Lamports
	ev.Owner = res.View.Owner.String()
	ev.Executable = res.View.Executable
	ev.DataLen = len(res.View.Data)
	ev.Parsed = res.View.Parsed
	if res.Mint != nil {
		ev.Mint = res.Mint
	}
	if res.MintErr != nil {
		ev.MintError = res.MintErr.Error()
	}
	return ev
}

var _ Sink = (*EventSink)(nil)
var _ AccountFetcher = (*fetcher.Fetcher)(nil)
