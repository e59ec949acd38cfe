// Package config loads process configuration from the environment. The
// core is configured once at startup; values are read-only afterwards.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/signing"
)

const envPrefix = "EVMCORE"

// Config is the startup configuration.
type Config struct {
	// SigningMode is the explicit hash-mode policy, "legacy" or
	// "eip155". Deliberately never auto-detected.
	SigningMode signing.Mode

	// DefaultChainID selects the initially active chain.
	DefaultChainID int64

	// RPCURLOverride, when set, replaces the default chain's endpoint
	// list (primary first).
	RPCURLOverride []string

	// DialTimeout bounds each endpoint dial. Requests themselves are
	// bounded by the endpoint's network timeout only.
	DialTimeout time.Duration

	// SignTimeout bounds one whole transfer including the card
	// interaction. Zero means no bound; card taps are human-timescale.
	SignTimeout time.Duration

	// DevPrivateKey enables the in-memory development signer when no
	// card transport is wired. Hex encoded, no 0x prefix.
	DevPrivateKey string
}

// FromEnv reads configuration with EVMCORE_ prefixed variables, e.g.
// EVMCORE_SIGNING_MODE=legacy.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("signing_mode", "eip155")
	v.SetDefault("default_chain_id", registry.ChainIDEthereum)
	v.SetDefault("rpc_urls", "")
	v.SetDefault("dial_timeout", "10s")
	v.SetDefault("sign_timeout", "0s")
	v.SetDefault("dev_private_key", "")

	mode, err := signing.ParseMode(v.GetString("signing_mode"))
	if err != nil {
		return Config{}, errors.Wrap(err, "invalid EVMCORE_SIGNING_MODE")
	}

	var urls []string
	if raw := v.GetString("rpc_urls"); raw != "" {
		for _, url := range strings.Split(raw, ",") {
			if url = strings.TrimSpace(url); url != "" {
				urls = append(urls, url)
			}
		}
	}

	return Config{
		SigningMode:    mode,
		DefaultChainID: v.GetInt64("default_chain_id"),
		RPCURLOverride: urls,
		DialTimeout:    v.GetDuration("dial_timeout"),
		SignTimeout:    v.GetDuration("sign_timeout"),
		DevPrivateKey:  v.GetString("dev_private_key"),
	}, nil
}
