package config

import (
	"encoding/base64"
	"time"
)

type AuthConfig struct {
	// StoreMode selects where tenants, signing keys and accounts live.
	StoreMode string `env:"STORE_MODE" envDefault:"postgres"`
	// CodeStoreMode selects where one-time codes live.
	CodeStoreMode string `env:"CODE_STORE_MODE" envDefault:"redis"`
	// StoreTimeout bounds every call to a backing store.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`

	Token    TokenConfig
	Codes    CodeConfig
	Password PasswordConfig
}

type TokenConfig struct {
	Issuer    string        `env:"JWT_ISSUER" envDefault:"Cross-Auth-v1"`
	TenantTTL time.Duration `env:"JWT_TENANT_TTL" envDefault:"10h"`

	// PlatformSecret is the base64 encoded HMAC key for organization
	// tokens.
	PlatformSecret string        `env:"JWT_SECRET"`
	PlatformTTL    time.Duration `env:"JWT_EXP" envDefault:"10h"`
}

type CodeConfig struct {
	AuthCodeLength  int           `env:"AUTH_CODE_LENGTH" envDefault:"12"`
	AuthCodeTTL     time.Duration `env:"AUTH_CODE_TTL" envDefault:"10m"`
	ResetCodeLength int           `env:"RESET_CODE_LENGTH" envDefault:"6"`
	ResetCodeTTL    time.Duration `env:"RESET_CODE_TTL" envDefault:"10m"`
}

// PasswordConfig holds the argon2id cost parameters. Memory is in KiB.
type PasswordConfig struct {
	Iterations  int    `env:"ARGON2_ITERATIONS" envDefault:"12"`
	Memory      uint32 `env:"ARGON2_MEMORY_KIB" envDefault:"65336"`
	Parallelism int    `env:"ARGON2_PARALLELISM" envDefault:"1"`
}

const minPlatformKeyBytes = 32

func (a AuthConfig) Validate() error {
	if a.Token.PlatformSecret == "" {
		return errs.NewWithMessage(ErrInvalidConfig, "JWT_SECRET is required")
	}
	key, err := base64.StdEncoding.DecodeString(a.Token.PlatformSecret)
	if err != nil {
		return errs.NewWithCause(ErrInvalidConfig, err).WithDetail("field", "JWT_SECRET")
	}
	if len(key) < minPlatformKeyBytes {
		return errs.NewWithMessage(ErrInvalidConfig, "JWT_SECRET must decode to at least 32 bytes")
	}
	if a.Token.TenantTTL <= 0 || a.Token.PlatformTTL <= 0 {
		return errs.NewWithMessage(ErrInvalidConfig, "token lifetimes must be positive")
	}
	if a.Codes.AuthCodeLength < 1 || a.Codes.ResetCodeLength < 1 {
		return errs.NewWithMessage(ErrInvalidConfig, "code lengths must be positive")
	}
	if a.Codes.AuthCodeTTL <= 0 || a.Codes.ResetCodeTTL <= 0 {
		return errs.NewWithMessage(ErrInvalidConfig, "code lifetimes must be positive")
	}
	if a.Password.Iterations < 1 || a.Password.Parallelism < 1 || a.Password.Memory < 8*uint32(a.Password.Parallelism) {
		return errs.NewWithMessage(ErrInvalidConfig, "argon2 parameters out of range")
	}
	return nil
}
