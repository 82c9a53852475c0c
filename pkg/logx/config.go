package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config is read once at process start and handed to New.
type Config struct {
	Level           string `env:"LOG_LEVEL" envDefault:"info"`
	Format          Format `env:"LOG_FORMAT" envDefault:"console"`
	EnableColors    bool   `env:"LOG_COLOR" envDefault:"true"`
	EnableCaller    bool   `env:"LOG_CALLER" envDefault:"false"`
	EnableTimestamp bool   `env:"LOG_TIMESTAMP" envDefault:"true"`
	TimeFormat      string `env:"LOG_TIME_FORMAT" envDefault:"RFC3339"`

	// RedactKeys are field names whose values are never written. Matching
	// is case insensitive and by substring.
	RedactKeys []string `env:"LOG_REDACT_KEYS" envSeparator:"," envDefault:"secret,password,auth_code,reset_code,token,key_material"`

	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:           "info",
		Format:          FormatConsole,
		EnableColors:    true,
		EnableTimestamp: true,
		TimeFormat:      time.RFC3339,
		RedactKeys:      []string{"secret", "password", "auth_code", "reset_code", "token", "key_material"},
		Output:          os.Stdout,
	}
}

// LoadFromEnv reads the LOG_* variables.
func LoadFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	cfg.TimeFormat = resolveTimeFormat(cfg.TimeFormat)
	cfg.Output = os.Stdout
	return cfg, nil
}

func resolveTimeFormat(name string) string {
	switch strings.ToUpper(name) {
	case "", "RFC3339":
		return time.RFC3339
	case "RFC3339NANO":
		return time.RFC3339Nano
	case "UNIX":
		return "unix"
	case "UNIXMILLI":
		return "unixmilli"
	default:
		return name
	}
}
