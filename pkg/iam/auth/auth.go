// Package auth mints and verifies the two token families: tenant tokens
// signed with a tenant's private key, and platform tokens signed with the
// service's own key for organization accounts.
package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

const (
	DefaultIssuer = "Cross-Auth-v1"

	// VersionHeader is set in the JOSE header of every token.
	VersionHeader = "X-CROSS-AUTH-VERSION"
	Version       = "v1.0.0"
)

// Claims is the verified content of a token. TenantID is set for tenant
// tokens and Role for platform tokens.
type Claims struct {
	Subject   string          `json:"sub"`
	TenantID  kernel.TenantID `json:"app,omitempty"`
	Role      string          `json:"role,omitempty"`
	Issuer    string          `json:"iss"`
	IssuedAt  time.Time       `json:"iat"`
	ExpiresAt time.Time       `json:"exp"`
}

// SignedToken is a compact JWS and its expiry.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidToken          = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid token")
	CodeTokenExpired          = ErrRegistry.Register("TOKEN_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Token expired")
	CodeWeakKey               = ErrRegistry.Register("WEAK_KEY", errx.TypeInternal, http.StatusInternalServerError, "Signing key is shorter than 256 bits")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
)

func ErrInvalidToken() *errx.Error { return ErrRegistry.New(CodeInvalidToken) }
func ErrTokenExpired() *errx.Error { return ErrRegistry.New(CodeTokenExpired) }
func ErrWeakKey() *errx.Error      { return ErrRegistry.New(CodeWeakKey) }

func ErrTokenGenerationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeTokenGenerationFailed, cause)
}
