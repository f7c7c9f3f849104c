package events

import (
	"encoding/json"
	"errors"
	"time"
)

const AccountEventType = "account"

var ErrEmitterClosed = errors.New("emitter closed")

// AccountEvent is the published form of one batch report.
type AccountEvent struct {
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Key        string          `json:"key"`
	Endpoint   string          `json:"endpoint,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Program    string          `json:"program,omitempty"`
	Slot       uint64          `json:"slot,omitempty"`
	Lamports   uint64          `json:"lamports"`
	Owner      string          `json:"owner,omitempty"`
	Executable bool            `json:"executable"`
	DataLen    int             `json:"data_len"`
	Parsed     json.RawMessage `json:"parsed,omitempty"`
	Mint       any             `json:"mint,omitempty"`
	MintError  string          `json:"mint_error,omitempty"`
	Error      string          `json:"error,omitempty"`
	Timestamp  int64           `json:"timestamp"`
}

// Publisher is the subset of *nats.Conn the emitter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
	Close()
}

type Emitter interface {
	EmitAccount(event AccountEvent) error
	Close()
}

type emitter struct {
	conn    Publisher
	subject string
	closed  bool
}

func NewEmitter(conn Publisher, subject string) Emitter {
	return &emitter{
		conn:    conn,
		subject: subject,
	}
}

func (e *emitter) EmitAccount(event AccountEvent) error {
	if e.closed {
		return ErrEmitterClosed
	}
	if event.Type == "" {
		event.Type = AccountEventType
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.conn.Publish(e.subject, data)
}

// Close flushes pending messages before closing the connection.
func (e *emitter) Close() {
	if e.closed || e.conn == nil {
		return
	}
	e.closed = true
	_ = e.conn.Flush()
	e.conn.Close()
}
