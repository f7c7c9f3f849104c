package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		logger.Error("Fetcher failed", "error", err)
		stop()
		os.Exit(1)
	}
}
