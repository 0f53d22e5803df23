package realip

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds the deployment-level settings read by OptionsFromEnv.
type EnvConfig struct {
	// PeerFallback enables the transport peer fallback.
	PeerFallback bool `env:"REALIP_PEER_FALLBACK" envDefault:"false"`
}

// Option returns the Option equivalent of c.
func (c EnvConfig) Option() Option {
	return WithPeerFallback(c.PeerFallback)
}

// OptionsFromEnv returns an Option configured from process environment
// variables:
//
//	REALIP_PEER_FALLBACK  enable the transport peer fallback (default false)
//
// Parsing errors are reported when the option is applied, so New fails with
// a descriptive error.
func OptionsFromEnv() Option {
	return func(c *config) error {
		var cfg EnvConfig
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
		return cfg.Option()(c)
	}
}
