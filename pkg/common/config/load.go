package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fystack/solana-account-fetcher/pkg/common/constant"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Missing files are ignored, and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: load %s: %w", ErrConfig, p, err)
		}
	}
	return nil
}

// Load reads path (optional), fills endpoints from the environment when the
// file lists none, applies overrides and defaults, then validates. Every
// returned error wraps ErrConfig.
func Load(path string, ov *Overrides) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
		}
	}

	if ov != nil {
		if err := ov.apply(&cfg); err != nil {
			return nil, err
		}
	}
	if len(cfg.Nodes) == 0 {
		cfg.Nodes = nodesFromEnv()
	}
	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no rpc endpoint: set %s (or %s) or list nodes in the config file",
			ErrConfig, constant.EnvRPCURL, constant.EnvHeliusRPCURL)
	}
	cfg.ApplyDefaults()

	nodes, err := FinalizeNodes(cfg.Nodes)
	if err != nil {
		return nil, err
	}
	cfg.Nodes = nodes

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: validation failed: %w", ErrConfig, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = constant.EnvDevelopment
	}
	if c.Commitment == "" {
		c.Commitment = enum.CommitmentFinalized
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = constant.DefaultTimeout
	}
	if c.Client.RPS == 0 {
		c.Client.RPS = constant.DefaultRPS
	}
	if c.Client.Burst == 0 {
		c.Client.Burst = constant.DefaultBurst
	}
	if len(c.Accounts) == 0 {
		c.Accounts = DefaultAccounts()
	}
	if c.Output.Format == "" {
		c.Output.Format = enum.OutputText
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = constant.DefaultNATSSubject
	}
}

func (o *Overrides) apply(cfg *Config) error {
	if o.Commitment != "" && !o.Commitment.Valid() {
		return fmt.Errorf("%w: commitment %q: want processed, confirmed or finalized", ErrConfig, o.Commitment)
	}
	if o.Output != "" && !o.Output.Valid() {
		return fmt.Errorf("%w: output %q: want text, json or yaml", ErrConfig, o.Output)
	}

	if len(o.RPCURLs) > 0 {
		cfg.Nodes = lo.Map(o.RPCURLs, func(u string, _ int) Node {
			return Node{URL: strings.TrimSpace(u)}
		})
	}
	if o.Commitment != "" {
		cfg.Commitment = o.Commitment
	}
	if o.Output != "" {
		cfg.Output.Format = o.Output
	}
	if len(o.Accounts) > 0 {
		cfg.Accounts = o.Accounts
	}
	return nil
}

func nodesFromEnv() []Node {
	primary := os.Getenv(constant.EnvRPCURL)
	if primary == "" {
		primary = os.Getenv(constant.EnvHeliusRPCURL)
	}
	if primary == "" {
		return nil
	}

	nodes := []Node{{URL: primary}}
	for _, u := range strings.Split(os.Getenv(constant.EnvFallbackURLs), ",") {
		if u = strings.TrimSpace(u); u != "" {
			nodes = append(nodes, Node{URL: u})
		}
	}
	return nodes
}
