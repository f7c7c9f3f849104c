package constant

import "time"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// Primary endpoint variables, checked in order when no config file lists nodes.
	EnvRPCURL       = "SOLANA_RPC_URL"
	EnvHeliusRPCURL = "HELIUS_RPC_URL"
	// Comma separated fallback endpoints.
	EnvFallbackURLs = "SOLANA_RPC_FALLBACK_URLS"

	DefaultTimeout     = 15 * time.Second
	DefaultRPS         = 10
	DefaultBurst       = 5
	DefaultNATSSubject = "solana.account.report"

	// SPL Mint account size in bytes.
	MintAccountSize = 82

	LamportsPerSOL = 1_000_000_000
)
