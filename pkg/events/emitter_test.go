package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
	flushed  bool
	closed   bool
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakePublisher) Flush() error { f.flushed = true; return nil }
func (f *fakePublisher) Close()       { f.closed = true }

func TestEmitAccount(t *testing.T) {
	pub := &fakePublisher{}
	e := NewEmitter(pub, "solana.account.report")

	err := e.EmitAccount(AccountEvent{
		Label:    "WSOL",
		Key:      "So11111111111111111111111111111111111111112",
		Kind:     "raw",
		Lamports: 1_000,
		DataLen:  82,
		Mint:     map[string]any{"decimals": 9},
	})
	require.NoError(t, err)

	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "solana.account.report", pub.subjects[0])

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, AccountEventType, got["type"])
	assert.Equal(t, "WSOL", got["label"])
	assert.EqualValues(t, 82, got["data_len"])
	assert.NotZero(t, got["timestamp"])
	assert.NotContains(t, got, "error")
}

func TestEmitAccount_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	e := NewEmitter(pub, "s")
	assert.EqualError(t, e.EmitAccount(AccountEvent{Label: "x"}), "nats: connection closed")
}

func TestClose(t *testing.T) {
	pub := &fakePublisher{}
	e := NewEmitter(pub, "s")
	e.Close()
	e.Close()

	assert.True(t, pub.flushed)
	assert.True(t, pub.closed)
	assert.ErrorIs(t, e.EmitAccount(AccountEvent{}), ErrEmitterClosed)
}
