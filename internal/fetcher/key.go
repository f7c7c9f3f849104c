package fetcher

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ParseKey decodes a base58 account key.
func ParseKey(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	raw, err := base58.Decode(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, s, err)
	}
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("%w: %q decodes to %d bytes, want %d",
			ErrInvalidKey, s, len(raw), solana.PublicKeyLength)
	}
	return solana.PublicKeyFromBytes(raw), nil
}
