package auth

import (
	"strings"

	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const localsKey = "auth"

// PlatformVerifier is satisfied by *PlatformMinter.
type PlatformVerifier interface {
	Verify(raw string) (*Claims, error)
}

// TokenMiddleware authenticates owner routes with a platform token.
type TokenMiddleware struct {
	verifier PlatformVerifier
}

func NewAuthMiddleware(verifier PlatformVerifier) *TokenMiddleware {
	return &TokenMiddleware{verifier: verifier}
}

// Authenticate reads "Authorization: Bearer <token>", falling back to the
// access_token cookie.
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies("access_token")
		}
		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := am.verifier.Verify(token)
		if err != nil {
			return iam.ErrInvalidToken()
		}

		ac := &kernel.AuthContext{Owner: kernel.OwnerRef(claims.Subject), Role: claims.Role}
		c.Locals(localsKey, ac)
		c.SetUserContext(kernel.WithAuthContext(c.UserContext(), ac))
		return c.Next()
	}
}

// RequireOrganization must run after Authenticate.
func (am *TokenMiddleware) RequireOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := AuthContextFrom(c)
		if !ok {
			return iam.ErrUnauthorized()
		}
		if !ac.IsOrganization() {
			return iam.ErrAccessDenied()
		}
		return c.Next()
	}
}

func AuthContextFrom(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	ac, ok := c.Locals(localsKey).(*kernel.AuthContext)
	return ac, ok && ac.IsValid()
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
