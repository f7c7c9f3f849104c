package config

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// DefaultAccounts is the built-in batch used when neither the config file nor
// the command line lists accounts.
func DefaultAccounts() []Account {
	return []Account{
		{Label: "System Program", Pubkey: solana.SystemProgramID.String()},
		{Label: "SPL Token Program", Pubkey: solana.TokenProgramID.String()},
		{Label: "WSOL Mint", Pubkey: solana.SolMint.String(), DecodeAsMint: true},
		{Label: "Memo Program", Pubkey: solana.MemoProgramID.String()},
		{Label: "Stake Program", Pubkey: solana.StakeProgramID.String()},
		{Label: "USDC Mint", Pubkey: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", DecodeAsMint: true},
	}
}

// ParseAccountFlag parses "label=pubkey" or "label=pubkey,mint".
func ParseAccountFlag(s string) (Account, error) {
	label, rest, ok := strings.Cut(s, "=")
	label = strings.TrimSpace(label)
	if !ok || label == "" || strings.TrimSpace(rest) == "" {
		return Account{}, fmt.Errorf("%w: account %q: expected label=pubkey[,mint]", ErrConfig, s)
	}

	parts := strings.Split(rest, ",")
	acc := Account{Label: label, Pubkey: strings.TrimSpace(parts[0])}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "mint":
			acc.DecodeAsMint = true
		case "":
		default:
			return Account{}, fmt.Errorf("%w: account %q: unknown option %q", ErrConfig, s, opt)
		}
	}
	return acc, nil
}
