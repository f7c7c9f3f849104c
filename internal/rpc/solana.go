package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fystack/solana-account-fetcher/pkg/common/config"
	"github.com/fystack/solana-account-fetcher/pkg/ratelimiter"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// SolanaClient is the part of the solana-go RPC client used for account reads.
type SolanaClient interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error)
}

// SolanaClientOptions tunes the HTTP transport of a single endpoint.
type SolanaClientOptions struct {
	Timeout time.Duration
	RPS     int
	Burst   int
	Headers map[string]string
}

// NewSolanaClient creates a JSON-RPC client for url. Requests carry the
// given headers, are rate limited per endpoint and time out after Timeout.
func NewSolanaClient(url string, opts SolanaClientOptions) *solanarpc.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.RPS > 0 {
		transport = ratelimiter.NewTransport(transport, ratelimiter.NewRateLimiterFromRPS(opts.RPS, opts.Burst))
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
	rpcClient := jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
		HTTPClient:    httpClient,
		CustomHeaders: opts.Headers,
	})
	return solanarpc.NewWithCustomRPCClient(rpcClient)
}

// NewSolanaFailover builds one provider per node, in config order.
func NewSolanaFailover(nodes []config.Node, client config.ClientConfig, fc *FailoverConfig) (*Failover[SolanaClient], error) {
	f := NewFailover[SolanaClient](fc)
	for _, node := range nodes {
		c := NewSolanaClient(node.URL, SolanaClientOptions{
			Timeout: client.Timeout,
			RPS:     client.RPS,
			Burst:   client.Burst,
			Headers: NodeHeaders(node),
		})
		if err := f.AddProvider(NewProvider(node.Name, node.Redacted(), SolanaClient(c))); err != nil {
			return nil, fmt.Errorf("add provider %s: %w", node.Name, err)
		}
	}
	if len(f.Providers()) == 0 {
		return nil, ErrNoProviders
	}
	return f, nil
}
