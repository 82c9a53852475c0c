package config_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/config"
	"github.com/Abraxas-365/cauth/pkg/errx"
)

func platformSecret() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 64)))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", platformSecret())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Cross-Auth-v1", cfg.Auth.Token.Issuer)
	assert.Equal(t, 10*time.Hour, cfg.Auth.Token.TenantTTL)
	assert.Equal(t, 12, cfg.Auth.Codes.AuthCodeLength)
	assert.Equal(t, 6, cfg.Auth.Codes.ResetCodeLength)
	assert.Equal(t, 10*time.Minute, cfg.Auth.Codes.AuthCodeTTL)
	assert.Equal(t, 12, cfg.Auth.Password.Iterations)
	assert.Equal(t, uint32(65336), cfg.Auth.Password.Memory)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Contains(t, cfg.Database.DSN(), "dbname=cauth")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", platformSecret())
	t.Setenv("STORE_MODE", "memory")
	t.Setenv("CODE_STORE_MODE", "memory")
	t.Setenv("AUTH_CODE_TTL", "90s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreModeMemory, cfg.Auth.StoreMode)
	assert.Equal(t, 90*time.Second, cfg.Auth.Codes.AuthCodeTTL)
}

func TestLoad_RejectsMissingPlatformSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, config.ErrInvalidConfig))
}

func TestLoad_RejectsShortPlatformSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString([]byte("short")))

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestLoad_RejectsUnknownStoreMode(t *testing.T) {
	t.Setenv("JWT_SECRET", platformSecret())
	t.Setenv("STORE_MODE", "mongo")

	_, err := config.Load()
	require.Error(t, err)
}
