package config

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment once at
// start and passed to the composition root.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Notifx   NotifxConfig
	Log      logx.Config
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	CORSOrigins     string        `env:"CORS_ORIGINS" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AppVersion      string        `env:"APP_VERSION" envDefault:"1.0.0"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
}

var errs = errx.NewRegistry("CONFIG")

var ErrInvalidConfig = errs.Register("INVALID", errx.TypeValidation, 0, "Invalid configuration")

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errs.NewWithCause(ErrInvalidConfig, err)
	}
	cfg.Log = normalizeLog(cfg.Log)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeLog(c logx.Config) logx.Config {
	def := logx.DefaultConfig()
	if c.TimeFormat == "" || c.TimeFormat == "RFC3339" {
		c.TimeFormat = def.TimeFormat
	}
	c.Output = def.Output
	return c
}

func (c *Config) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	switch c.Auth.StoreMode {
	case StoreModePostgres, StoreModeMemory:
	default:
		return errs.NewWithMessage(ErrInvalidConfig, fmt.Sprintf("unknown STORE_MODE %q", c.Auth.StoreMode))
	}
	switch c.Auth.CodeStoreMode {
	case StoreModeRedis, StoreModeMemory:
	default:
		return errs.NewWithMessage(ErrInvalidConfig, fmt.Sprintf("unknown CODE_STORE_MODE %q", c.Auth.CodeStoreMode))
	}
	switch c.Notifx.Provider {
	case "console", "ses":
	default:
		return errs.NewWithMessage(ErrInvalidConfig, fmt.Sprintf("unknown NOTIFX_PROVIDER %q", c.Notifx.Provider))
	}
	return nil
}
