package config

import (
	"time"

	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
)

type Config struct {
	Environment string          `yaml:"env"        validate:"omitempty,oneof=production development"`
	Commitment  enum.Commitment `yaml:"commitment" validate:"required,oneof=processed confirmed finalized"`
	Client      ClientConfig    `yaml:"client"`
	Nodes       []Node          `yaml:"nodes"      validate:"required,min=1,dive"`
	Accounts    []Account       `yaml:"accounts"   validate:"required,min=1,dive"`
	Output      OutputConfig    `yaml:"output"`
	NATS        NATSConfig      `yaml:"nats"`
}

type ClientConfig struct {
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	RPS     int           `yaml:"rps"     validate:"gte=0"`
	Burst   int           `yaml:"burst"   validate:"gte=0"`
}

// Account is one entry of the batch: a display label, a base58 key and
// whether raw bytes should also be decoded as an SPL mint.
type Account struct {
	Label        string `yaml:"label"          validate:"required"`
	Pubkey       string `yaml:"pubkey"         validate:"required,pubkey"`
	DecodeAsMint bool   `yaml:"decode_as_mint"`
}

type OutputConfig struct {
	Format  enum.OutputFormat `yaml:"format" validate:"omitempty,oneof=text json yaml"`
	NoColor bool              `yaml:"no_color"`
}

type NATSConfig struct {
	Enabled  bool      `yaml:"enabled"`
	URL      string    `yaml:"url"      validate:"required_if=Enabled true,omitempty,url"`
	Subject  string    `yaml:"subject"`
	Username string    `yaml:"username"`
	Password string    `yaml:"password"`
	TLS      TLSConfig `yaml:"tls"`
}

// TLSConfig is only consulted in production.
type TLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	CACert     string `yaml:"ca_cert"`
}

// Overrides carries values given on the command line. Non-empty fields win
// over the config file and the environment.
type Overrides struct {
	RPCURLs    []string
	Commitment enum.Commitment
	Output     enum.OutputFormat
	Accounts   []Account
}
