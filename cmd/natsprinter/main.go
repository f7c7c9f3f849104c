package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fystack/solana-account-fetcher/pkg/common/config"
	"github.com/fystack/solana-account-fetcher/pkg/common/constant"
	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/fystack/solana-account-fetcher/pkg/events"
	"github.com/fystack/solana-account-fetcher/pkg/infra"
	"github.com/nats-io/nats.go"
)

func main() {
	logger.Init(nil)

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	subject := os.Getenv("NATS_SUBJECT")
	if subject == "" {
		subject = constant.DefaultNATSSubject
	}

	nc, err := infra.GetNATSConnection(config.NATSConfig{URL: natsURL}, constant.EnvDevelopment)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "url", natsURL, "error", err)
	}
	defer nc.Close()

	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		fmt.Println(formatMessage(msg.Subject, msg.Data))
	})
	if err != nil {
		logger.Fatal("Failed to subscribe", "subject", subject, "error", err)
	}
	logger.Info("Subscribed", "subject", subject, "url", natsURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

// formatMessage prints account events as one summary line and anything
// else verbatim.
func formatMessage(subject string, data []byte) string {
	var ev events.AccountEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.Type != events.AccountEventType {
		return fmt.Sprintf("[%s] %s", subject, data)
	}
	switch {
	case ev.Error != "":
		return fmt.Sprintf("[%s] %s %s error=%q", subject, ev.Label, ev.Key, ev.Error)
	case ev.Kind == "not_found":
		return fmt.Sprintf("[%s] %s %s not found (endpoint %s)", subject, ev.Label, ev.Key, ev.Endpoint)
	}
	return fmt.Sprintf("[%s] %s %s kind=%s lamports=%d owner=%s data_len=%d endpoint=%s",
		subject, ev.Label, ev.Key, ev.Kind, ev.Lamports, ev.Owner, ev.DataLen, ev.Endpoint)
}
