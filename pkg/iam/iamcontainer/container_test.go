package iamcontainer_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/config"
	"github.com/Abraxas-365/cauth/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/Abraxas-365/cauth/pkg/notifx"
	"github.com/Abraxas-365/cauth/pkg/notifx/notifxconsole"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			StoreMode:     config.StoreModeMemory,
			CodeStoreMode: config.StoreModeMemory,
			StoreTimeout:  time.Second,
			Token: config.TokenConfig{
				Issuer:         "Cross-Auth-v1",
				TenantTTL:      time.Hour,
				PlatformSecret: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32))),
				PlatformTTL:    time.Hour,
			},
			Codes: config.CodeConfig{
				AuthCodeLength: 16, AuthCodeTTL: time.Minute,
				ResetCodeLength: 8, ResetCodeTTL: time.Minute,
			},
			Password: config.PasswordConfig{Iterations: 1, Memory: 1024, Parallelism: 1},
		},
	}
}

func newDeps(cfg *config.Config) iamcontainer.Deps {
	logger := logx.Nop()
	return iamcontainer.Deps{
		Cfg:    cfg,
		Mailer: notifx.NewClient(notifxconsole.NewConsoleProvider(logger), "noreply@example.com", "Cross Auth"),
		Logger: logger,
	}
}

func TestNew_MemoryModeUsesConfiguredCodeShapes(t *testing.T) {
	c, err := iamcontainer.New(newDeps(memoryConfig()))
	require.NoError(t, err)
	require.NotNil(t, c.Handlers)
	require.NotNil(t, c.AuthMiddleware)

	ctx := context.Background()
	_, err = c.Issuance.RegisterOrganization(ctx, issuance.RegisterOrganizationRequest{Name: "Org", Email: "org@example.com", Password: "org-passw0rd"})
	require.NoError(t, err)

	code, err := c.Issuance.IssueAuthCode(ctx, "APP.20240101000000.abcdefgh", "bob@example.com")
	require.NoError(t, err)
	assert.Len(t, code.Value, 16)
}

func TestNew_RedisModeRequiresClient(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.CodeStoreMode = config.StoreModeRedis

	_, err := iamcontainer.New(newDeps(cfg))
	require.Error(t, err)
}

func TestNew_RejectsShortPlatformKey(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.Token.PlatformSecret = base64.StdEncoding.EncodeToString([]byte("short"))

	_, err := iamcontainer.New(newDeps(cfg))
	require.Error(t, err)
}
