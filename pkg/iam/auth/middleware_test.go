package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

func newProtectedApp(t *testing.T) (*fiber.App, *auth.PlatformMinter) {
	t.Helper()
	platform, err := auth.NewPlatformMinter(tenantKey(t), time.Hour)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errx.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	mw := auth.NewAuthMiddleware(platform)
	app.Get("/me", mw.Authenticate(), mw.RequireOrganization(), func(c *fiber.Ctx) error {
		ac, ok := auth.AuthContextFrom(c)
		require.True(t, ok)
		fromCtx, ok := kernel.AuthContextFrom(c.UserContext())
		require.True(t, ok)
		assert.Equal(t, ac, fromCtx)
		return c.SendString(ac.Owner.String())
	})
	return app, platform
}

func TestMiddleware_AcceptsOrganizationToken(t *testing.T) {
	app, platform := newProtectedApp(t)

	signed, err := platform.Mint("org@example.com", kernel.RoleOrganization)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_Rejections(t *testing.T) {
	app, platform := newProtectedApp(t)

	userToken, err := platform.Mint("bob@example.com", kernel.RoleUser)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		status int
	}{
		"no header":     {"", http.StatusUnauthorized},
		"wrong scheme":  {"Basic abc", http.StatusUnauthorized},
		"garbage token": {"Bearer abc.def.ghi", http.StatusUnauthorized},
		"user role":     {"Bearer " + userToken.Token, http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
