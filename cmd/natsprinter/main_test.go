package main

import (
	"encoding/json"
	"testing"

	"github.com/fystack/solana-account-fetcher/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	raw, err := json.Marshal(events.AccountEvent{
		Type: events.AccountEventType, Label: "WSOL", Key: "So11111111111111111111111111111111111111112",
		Kind: "raw", Lamports: 5, DataLen: 82, Endpoint: "primary",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"[s] WSOL So11111111111111111111111111111111111111112 kind=raw lamports=5 owner= data_len=82 endpoint=primary",
		formatMessage("s", raw))

	failed, _ := json.Marshal(events.AccountEvent{Type: events.AccountEventType, Label: "x", Key: "k", Error: "boom"})
	assert.Equal(t, `[s] x k error="boom"`, formatMessage("s", failed))

	assert.Equal(t, "[s] not json", formatMessage("s", []byte("not json")))
}
