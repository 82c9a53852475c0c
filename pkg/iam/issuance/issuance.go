// Package issuance composes tenants, signing keys, one-time codes and
// token minting into the user facing flows: tenant registration, end
// user login and registration, the auth code exchange and password
// reset. Every error it returns is one of the kinds in package iam.
package issuance

import (
	"context"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

const TokenTypeBearer = "Bearer"

type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenResponse(t auth.SignedToken) TokenResponse {
	return TokenResponse{Token: t.Token, TokenType: TokenTypeBearer, ExpiresAt: t.ExpiresAt}
}

// ResetIssued describes a reset code that was delivered. Code is only
// for in-process callers and is never serialized.
type ResetIssued struct {
	Code      string           `json:"-"`
	AuthID    kernel.SubjectID `json:"auth_id"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type SigningKeyView struct {
	TenantID  kernel.TenantID `json:"app_id"`
	Key       string          `json:"key"`
	CreatedAt time.Time       `json:"created_at"`
	RotatedAt *time.Time      `json:"rotated_at,omitempty"`
}

func toKeyView(k *signingkey.SigningKey) *SigningKeyView {
	return &SigningKeyView{TenantID: k.TenantID, Key: k.Material, CreatedAt: k.CreatedAt, RotatedAt: k.RotatedAt}
}

type LoginRequest struct {
	TenantID kernel.TenantID `json:"app_id"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
}

type RegisterUserRequest struct {
	TenantID    kernel.TenantID `json:"app_id"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	PhoneNumber string          `json:"phone_number"`
}

type ExchangeRequest struct {
	TenantID     kernel.TenantID `json:"app_id"`
	TenantSecret string          `json:"app_secret"`
	Code         string          `json:"auth_code"`
}

type ResetPasswordRequest struct {
	Code        string           `json:"security_code"`
	AuthID      kernel.SubjectID `json:"auth_id"`
	NewPassword string           `json:"new_password"`
}

type RegisterOrganizationRequest struct {
	Name     string `json:"org_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CodeDelivery sends a reset code to its owner out of band.
type CodeDelivery interface {
	SendResetCode(ctx context.Context, email string, code otp.Code) error
}

// TenantDirectory is implemented by tenantsrv.Directory.
type TenantDirectory interface {
	Register(ctx context.Context, req tenant.RegisterRequest) (*tenant.Tenant, error)
	Verify(ctx context.Context, id kernel.TenantID, secret string) (*tenant.Tenant, error)
	FindByPublicID(ctx context.Context, id kernel.TenantID) (*tenant.Tenant, error)
	ListByOwner(ctx context.Context, owner kernel.OwnerRef, opts kernel.PaginationOptions) (kernel.Paginated[tenant.Tenant], error)
	Update(ctx context.Context, id kernel.TenantID, patch tenant.Patch) (*tenant.Tenant, error)
	RotateKey(ctx context.Context, id kernel.TenantID) (*signingkey.SigningKey, error)
	Delete(ctx context.Context, id kernel.TenantID) error
}

// KeyRegistry is implemented by signingkeysrv.Registry.
type KeyRegistry interface {
	Get(ctx context.Context, id kernel.TenantID) (*signingkey.SigningKey, error)
}

// CodeIssuer is implemented by otpsrv.Issuer.
type CodeIssuer interface {
	Issue(ctx context.Context, purpose otp.Purpose, payload string) (otp.Code, error)
	Redeem(ctx context.Context, purpose otp.Purpose, code string) (string, error)
	Revoke(ctx context.Context, purpose otp.Purpose, code string) error
}
