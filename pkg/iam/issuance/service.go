package issuance

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/credential"
	"github.com/Abraxas-365/cauth/pkg/iam/organization"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/iam/user"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/google/uuid"
)

type Deps struct {
	Tenants       TenantDirectory
	Keys          KeyRegistry
	Codes         CodeIssuer
	Users         user.Repository
	Organizations organization.Repository
	Hasher        credential.Hasher
	Generator     codegen.Generator
	TenantTokens  *auth.TenantMinter
	PlatformToken *auth.PlatformMinter
	Delivery      CodeDelivery
	Audit         auth.AuditService
	Logger        *logx.Logger
}

// Service is safe for concurrent use.
type Service struct {
	tenants  TenantDirectory
	keys     KeyRegistry
	codes    CodeIssuer
	users    user.Repository
	orgs     organization.Repository
	hasher   credential.Hasher
	gen      codegen.Generator
	minter   *auth.TenantMinter
	platform *auth.PlatformMinter
	delivery CodeDelivery
	audit    auth.AuditService
	logger   *logx.Logger
	now      func() time.Time

	decoyOnce sync.Once
	decoy     string
}

func NewService(d Deps) *Service {
	return &Service{
		tenants:  d.Tenants,
		keys:     d.Keys,
		codes:    d.Codes,
		users:    d.Users,
		orgs:     d.Organizations,
		hasher:   d.Hasher,
		gen:      d.Generator,
		minter:   d.TenantTokens,
		platform: d.PlatformToken,
		delivery: d.Delivery,
		audit:    d.Audit,
		logger:   d.Logger.With(logx.Fields{"component": "issuance"}),
		now:      time.Now,
	}
}

// Login authenticates an end user and mints a tenant token. Unknown
// users, wrong passwords and tenants without a key all look the same.
func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	u, err := s.authenticateUser(ctx, req)
	if err != nil {
		s.audit.LogLoginAttempt(ctx, req.Email, req.TenantID, "password", false)
		return TokenResponse{}, s.fold(ctx, "login", err)
	}

	resp, err := s.mint(ctx, u.Email, u.TenantID)
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "login", err,
			on(signingkey.CodeNotFound, iam.ErrInvalidCredentials))
	}

	s.audit.LogLoginAttempt(ctx, u.Email, u.TenantID, "password", true)
	s.audit.LogTokenIssued(ctx, u.Email, u.TenantID, "password")
	return resp, nil
}

// RegisterUser creates an end user in an existing tenant and logs them in.
func (s *Service) RegisterUser(ctx context.Context, req RegisterUserRequest) (TokenResponse, error) {
	email := kernel.NormalizeEmail(req.Email)
	if err := user.ValidateRegistration(email, req.Password, strings.TrimSpace(req.PhoneNumber)); err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err)
	}

	if _, err := s.tenants.FindByPublicID(ctx, req.TenantID); err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err,
			on(tenant.CodeNotFound, iam.ErrInvalidCredentials))
	}

	authID, err := s.gen.PublicID(codegen.SubjectPrefix, s.now())
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err)
	}
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err)
	}

	now := s.now().UTC()
	u := user.User{
		ID:             uuid.New(),
		AuthID:         kernel.SubjectID(authID),
		Email:          email,
		TenantID:       req.TenantID,
		HashedPassword: hashed,
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		Role:           kernel.RoleUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err,
			on(user.CodeAlreadyExists, iam.ErrAlreadyExists))
	}
	s.audit.LogAccountCreated(ctx, u.Email, u.TenantID, "password")

	resp, err := s.mint(ctx, u.Email, u.TenantID)
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "register_user", err,
			on(signingkey.CodeNotFound, iam.ErrInvalidCredentials))
	}
	s.audit.LogTokenIssued(ctx, u.Email, u.TenantID, "registration")
	return resp, nil
}

// IssueAuthCode binds subject to tenantID under a fresh auth code.
func (s *Service) IssueAuthCode(ctx context.Context, tenantID kernel.TenantID, subject string) (otp.Code, error) {
	if tenantID.IsEmpty() || subject == "" || strings.Contains(tenantID.String(), ":") {
		return otp.Code{}, iam.ErrInvalidRequest("tenant and subject are required")
	}

	code, err := s.codes.Issue(ctx, otp.PurposeAuthExchange, tenantID.String()+":"+subject)
	if err != nil {
		return otp.Code{}, s.fold(ctx, "issue_auth_code", err)
	}
	return code, nil
}

// AuthorizeUser checks end user credentials and returns an auth code
// instead of a token.
func (s *Service) AuthorizeUser(ctx context.Context, req LoginRequest) (otp.Code, error) {
	u, err := s.authenticateUser(ctx, req)
	if err != nil {
		s.audit.LogLoginAttempt(ctx, req.Email, req.TenantID, "authorize", false)
		return otp.Code{}, s.fold(ctx, "authorize", err)
	}
	s.audit.LogLoginAttempt(ctx, u.Email, u.TenantID, "authorize", true)
	return s.IssueAuthCode(ctx, u.TenantID, u.Email)
}

// ExchangeCode trades an auth code for a token. The requesting tenant
// must authenticate and must be the tenant the code was issued for.
func (s *Service) ExchangeCode(ctx context.Context, req ExchangeRequest) (TokenResponse, error) {
	if _, err := s.tenants.Verify(ctx, req.TenantID, req.TenantSecret); err != nil {
		return TokenResponse{}, s.fold(ctx, "exchange", err,
			on(tenant.CodeInvalidCredentials, iam.ErrInvalidCredentials))
	}

	payload, err := s.codes.Redeem(ctx, otp.PurposeAuthExchange, req.Code)
	if err != nil {
		s.audit.LogCodeRedemption(ctx, string(otp.PurposeAuthExchange), false)
		return TokenResponse{}, s.fold(ctx, "exchange", err,
			on(otp.CodeInvalidOrExpired, iam.ErrInvalidCode))
	}

	tenantPart, subject, ok := strings.Cut(payload, ":")
	if !ok || tenantPart == "" || subject == "" {
		s.logger.WithContext(ctx).Error("auth code payload is malformed")
		return TokenResponse{}, iam.ErrInvalidCode()
	}
	if kernel.TenantID(tenantPart) != req.TenantID {
		s.logger.WithFields(logx.Fields{
			"tenant_id":      req.TenantID,
			"code_tenant_id": tenantPart,
		}).WithContext(ctx).Warn("auth code presented by a different tenant")
		s.audit.LogCodeRedemption(ctx, string(otp.PurposeAuthExchange), false)
		return TokenResponse{}, iam.ErrInvalidCode()
	}
	s.audit.LogCodeRedemption(ctx, string(otp.PurposeAuthExchange), true)

	resp, err := s.mint(ctx, subject, req.TenantID)
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "exchange", err,
			on(signingkey.CodeNotFound, iam.ErrInvalidCredentials))
	}
	s.audit.LogTokenIssued(ctx, subject, req.TenantID, "auth_code")
	return resp, nil
}

// IssueResetCode delivers a reset code to the user's email. If delivery
// fails the code is revoked so it can never be redeemed.
func (s *Service) IssueResetCode(ctx context.Context, authID kernel.SubjectID) (ResetIssued, error) {
	u, err := s.users.FindByAuthID(ctx, authID)
	if err != nil {
		return ResetIssued{}, s.fold(ctx, "issue_reset_code", err,
			on(user.CodeNotFound, iam.ErrNotFound))
	}

	code, err := s.codes.Issue(ctx, otp.PurposePasswordReset, u.AuthID.String())
	if err != nil {
		return ResetIssued{}, s.fold(ctx, "issue_reset_code", err)
	}

	if err := s.delivery.SendResetCode(ctx, u.Email, code); err != nil {
		if rerr := s.codes.Revoke(context.WithoutCancel(ctx), otp.PurposePasswordReset, code.Value); rerr != nil {
			s.logger.WithField("auth_id", u.AuthID).WithError(rerr).Error("failed to revoke undelivered reset code")
		}
		s.logger.WithField("auth_id", u.AuthID).WithError(err).WithContext(ctx).Error("reset code delivery failed")
		return ResetIssued{}, iam.ErrUnavailable()
	}

	return ResetIssued{Code: code.Value, AuthID: u.AuthID, ExpiresAt: code.ExpiresAt}, nil
}

// RedeemResetCode sets a new password. The code is consumed even when
// the claimed auth id is wrong.
func (s *Service) RedeemResetCode(ctx context.Context, req ResetPasswordRequest) error {
	if err := user.ValidatePassword(req.NewPassword); err != nil {
		return s.fold(ctx, "reset_password", err)
	}

	payload, err := s.codes.Redeem(ctx, otp.PurposePasswordReset, req.Code)
	if err != nil {
		s.audit.LogCodeRedemption(ctx, string(otp.PurposePasswordReset), false)
		return s.fold(ctx, "reset_password", err,
			on(otp.CodeInvalidOrExpired, iam.ErrInvalidCode))
	}
	if subtle.ConstantTimeCompare([]byte(payload), []byte(req.AuthID)) != 1 {
		s.audit.LogCodeRedemption(ctx, string(otp.PurposePasswordReset), false)
		return iam.ErrInvalidCode()
	}
	s.audit.LogCodeRedemption(ctx, string(otp.PurposePasswordReset), true)

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return s.fold(ctx, "reset_password", err)
	}
	if err := s.users.UpdatePassword(ctx, req.AuthID, hashed, s.now().UTC()); err != nil {
		s.audit.LogPasswordReset(ctx, req.AuthID, false)
		return s.fold(ctx, "reset_password", err,
			on(user.CodeNotFound, iam.ErrInvalidCode))
	}

	s.audit.LogPasswordReset(ctx, req.AuthID, true)
	return nil
}

// LookupAuthID resolves the stable auth id of a user.
func (s *Service) LookupAuthID(ctx context.Context, tenantID kernel.TenantID, email string) (kernel.SubjectID, error) {
	u, err := s.users.FindByEmail(ctx, tenantID, kernel.NormalizeEmail(email))
	if err != nil {
		return "", s.fold(ctx, "lookup_auth_id", err,
			on(user.CodeNotFound, iam.ErrNotFound))
	}
	return u.AuthID, nil
}

// VerifyToken checks a tenant token against the tenant's current key.
func (s *Service) VerifyToken(ctx context.Context, tenantID kernel.TenantID, token string) (*auth.Claims, error) {
	key, err := s.keys.Get(ctx, tenantID)
	if err != nil {
		return nil, s.fold(ctx, "verify_token", err,
			on(signingkey.CodeNotFound, iam.ErrInvalidToken))
	}
	hmacKey, err := key.HMACKey()
	if err != nil {
		return nil, s.fold(ctx, "verify_token", err)
	}

	claims, err := s.minter.Verify(token, tenantID, hmacKey)
	if err != nil {
		return nil, s.fold(ctx, "verify_token", err,
			on(auth.CodeTokenExpired, iam.ErrInvalidToken),
			on(auth.CodeInvalidToken, iam.ErrInvalidToken))
	}
	return claims, nil
}

// authenticateUser returns internal errors; callers fold them.
func (s *Service) authenticateUser(ctx context.Context, req LoginRequest) (*user.User, error) {
	u, err := s.users.FindByEmail(ctx, req.TenantID, kernel.NormalizeEmail(req.Email))
	if err != nil {
		if errx.HasCode(err, user.CodeNotFound) {
			s.hasher.Verify(req.Password, s.decoyHash())
			return nil, iam.ErrInvalidCredentials()
		}
		return nil, err
	}
	if !s.hasher.Verify(req.Password, u.HashedPassword) {
		return nil, iam.ErrInvalidCredentials()
	}
	return u, nil
}

func (s *Service) mint(ctx context.Context, subject string, tenantID kernel.TenantID) (TokenResponse, error) {
	key, err := s.keys.Get(ctx, tenantID)
	if err != nil {
		return TokenResponse{}, err
	}
	hmacKey, err := key.HMACKey()
	if err != nil {
		return TokenResponse{}, err
	}
	signed, err := s.minter.Mint(subject, tenantID, hmacKey)
	if err != nil {
		return TokenResponse{}, err
	}
	return newTokenResponse(signed), nil
}

// decoyHash lets a lookup miss cost one hash verification, like a hit.
func (s *Service) decoyHash() string {
	s.decoyOnce.Do(func() {
		material, err := s.gen.Code(32)
		if err != nil {
			return
		}
		s.decoy, _ = s.hasher.Hash(material)
	})
	return s.decoy
}
