package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/fystack/solana-account-fetcher/internal/rpc"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// Fetcher reads accounts through an ordered list of endpoints.
type Fetcher struct {
	endpoints *rpc.Failover[rpc.SolanaClient]
}

func New(endpoints *rpc.Failover[rpc.SolanaClient]) *Fetcher {
	return &Fetcher{endpoints: endpoints}
}

// Metrics returns the failover counters collected so far.
func (f *Fetcher) Metrics() map[string]any {
	return f.endpoints.GetMetrics()
}

// FetchString parses key and fetches it. An invalid key fails with
// ErrInvalidKey before any endpoint is called.
func (f *Fetcher) FetchString(ctx context.Context, key string, commitment enum.Commitment, decodeAsMint bool) (*FetchResult, error) {
	pk, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, pk, commitment, decodeAsMint)
}

// Fetch asks each endpoint in order for the jsonParsed view of key, falling
// back to base64 bytes when the server cannot parse the account. The first
// endpoint that answers without a transport error wins. A missing account
// is a ViewNotFound result, not an error.
func (f *Fetcher) Fetch(ctx context.Context, key solana.PublicKey, commitment enum.Commitment, decodeAsMint bool) (*FetchResult, error) {
	var result *FetchResult
	err := f.endpoints.Execute(ctx, func(p *rpc.Provider, client rpc.SolanaClient) error {
		res, err := fetchFrom(ctx, client, key, solanarpc.CommitmentType(commitment))
		if err != nil {
			return err
		}
		res.Endpoint = p.Name
		result = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, key, err)
	}

	if decodeAsMint && result.View.Kind == enum.ViewRaw {
		result.Mint, result.MintErr = DecodeMint(result.View.Data)
		if result.MintErr != nil {
			logger.Debug("Raw account is not a mint", "key", key, "error", result.MintErr)
		}
	}
	return result, nil
}

func fetchFrom(ctx context.Context, client rpc.SolanaClient, key solana.PublicKey, commitment solanarpc.CommitmentType) (*FetchResult, error) {
	out, err := getAccount(ctx, client, key, solana.EncodingJSONParsed, commitment)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return notFound(key), nil
	}
	if acc := out.Value; acc.Data != nil && len(acc.Data.GetRawJSON()) > 0 {
		return &FetchResult{
			Key: key,
			View: AccountView{
				Kind:       enum.ViewParsed,
				Slot:       out.Context.Slot,
				Lamports:   acc.Lamports,
				Owner:      acc.Owner,
				Executable: acc.Executable,
				Parsed:     acc.Data.GetRawJSON(),
			},
		}, nil
	}

	logger.Debug("No parsed view, fetching raw bytes", "key", key)
	out, err = getAccount(ctx, client, key, solana.EncodingBase64, commitment)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return notFound(key), nil
	}

	acc := out.Value
	var data []byte
	if acc.Data != nil {
		data = acc.Data.GetBinary()
	}
	return &FetchResult{
		Key: key,
		View: AccountView{
			Kind:       enum.ViewRaw,
			Slot:       out.Context.Slot,
			Lamports:   acc.Lamports,
			Owner:      acc.Owner,
			Executable: acc.Executable,
			Data:       data,
		},
	}, nil
}

// getAccount returns (nil, nil) when the account does not exist.
func getAccount(ctx context.Context, client rpc.SolanaClient, key solana.PublicKey, encoding solana.EncodingType, commitment solanarpc.CommitmentType) (*solanarpc.GetAccountInfoResult, error) {
	out, err := client.GetAccountInfoWithOpts(ctx, key, &solanarpc.GetAccountInfoOpts{
		Encoding:   encoding,
		Commitment: commitment,
	})
	if errors.Is(err, solanarpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo (%s): %w", encoding, err)
	}
	if out == nil || out.Value == nil {
		return nil, nil
	}
	return out, nil
}

func notFound(key solana.PublicKey) *FetchResult {
	return &FetchResult{Key: key, View: AccountView{Kind: enum.ViewNotFound}}
}
