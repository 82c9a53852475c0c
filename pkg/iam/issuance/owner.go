package issuance

import (
	"context"
	"strings"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/iam/organization"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/iam/user"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/google/uuid"
)

// RegisterOrganization creates a tenant owner account.
func (s *Service) RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*organization.View, error) {
	email := kernel.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || !kernel.ValidEmail(email) {
		return nil, iam.ErrInvalidRequest("organization name and a valid email are required")
	}
	if err := user.ValidatePassword(req.Password); err != nil {
		return nil, s.fold(ctx, "register_organization", err)
	}

	owner := kernel.OwnerRef(email)
	exists, err := s.orgs.ExistsByEmail(ctx, owner)
	if err != nil {
		return nil, s.fold(ctx, "register_organization", err)
	}
	if exists {
		return nil, iam.ErrAlreadyExists()
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.fold(ctx, "register_organization", err)
	}
	org := organization.Organization{
		ID:             uuid.New(),
		Name:           name,
		Email:          owner,
		HashedPassword: hashed,
		Active:         true,
		JoinedAt:       s.now().UTC(),
		Role:           kernel.RoleOrganization,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, s.fold(ctx, "register_organization", err,
			on(organization.CodeAlreadyExists, iam.ErrAlreadyExists))
	}

	s.audit.LogAccountCreated(ctx, email, "", "organization")
	view := organization.ToView(org)
	return &view, nil
}

// LoginOrganization mints a platform token for an organization.
func (s *Service) LoginOrganization(ctx context.Context, email, password string) (TokenResponse, error) {
	owner := kernel.OwnerRef(kernel.NormalizeEmail(email))
	org, err := s.orgs.FindByEmail(ctx, owner)
	if err != nil {
		if !errx.HasCode(err, organization.CodeNotFound) {
			return TokenResponse{}, s.fold(ctx, "login_organization", err)
		}
		s.hasher.Verify(password, s.decoyHash())
		s.audit.LogLoginAttempt(ctx, owner.String(), "", "organization", false)
		return TokenResponse{}, iam.ErrInvalidCredentials()
	}
	if !s.hasher.Verify(password, org.HashedPassword) || !org.Active {
		s.audit.LogLoginAttempt(ctx, owner.String(), "", "organization", false)
		return TokenResponse{}, iam.ErrInvalidCredentials()
	}

	signed, err := s.platform.Mint(org.Email.String(), kernel.RoleOrganization)
	if err != nil {
		return TokenResponse{}, s.fold(ctx, "login_organization", err)
	}
	s.audit.LogLoginAttempt(ctx, owner.String(), "", "organization", true)
	return newTokenResponse(signed), nil
}

// VerifyTenant checks tenant credentials and returns the tenant.
func (s *Service) VerifyTenant(ctx context.Context, id kernel.TenantID, secret string) (*tenant.View, error) {
	t, err := s.tenants.Verify(ctx, id, secret)
	if err != nil {
		return nil, s.fold(ctx, "verify_tenant", err,
			on(tenant.CodeInvalidCredentials, iam.ErrInvalidCredentials))
	}
	view := tenant.ToView(*t)
	return &view, nil
}

// RegisterTenant registers a tenant owned by the organization in ctx.
func (s *Service) RegisterTenant(ctx context.Context, req tenant.RegisterRequest) (*tenant.View, error) {
	ac, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	req.OwnerRef = ac.Owner

	t, err := s.tenants.Register(ctx, req)
	if err != nil {
		return nil, s.fold(ctx, "register_tenant", err,
			on(tenant.CodeNameTaken, iam.ErrAlreadyExists),
			on(tenant.CodeOwnerNotFound, iam.ErrOwnerNotFound))
	}

	s.audit.LogTenantChange(ctx, ac.Owner, t.PublicID, "register")
	view := tenant.ToView(*t)
	return &view, nil
}

func (s *Service) ListTenants(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[tenant.View], error) {
	ac, err := principal(ctx)
	if err != nil {
		return kernel.Paginated[tenant.View]{}, err
	}

	page, err := s.tenants.ListByOwner(ctx, ac.Owner, opts)
	if err != nil {
		return kernel.Paginated[tenant.View]{}, s.fold(ctx, "list_tenants", err)
	}
	views := make([]tenant.View, 0, len(page.Items))
	for _, t := range page.Items {
		views = append(views, tenant.ToView(t))
	}
	return kernel.NewPaginated(views, page.Page.Number, page.Page.Size, page.Page.Total), nil
}

func (s *Service) GetTenant(ctx context.Context, id kernel.TenantID) (*tenant.View, error) {
	t, _, err := s.ownedTenant(ctx, "get_tenant", id)
	if err != nil {
		return nil, err
	}
	view := tenant.ToView(*t)
	return &view, nil
}

func (s *Service) UpdateTenant(ctx context.Context, id kernel.TenantID, patch tenant.Patch) (*tenant.View, error) {
	_, ac, err := s.ownedTenant(ctx, "update_tenant", id)
	if err != nil {
		return nil, err
	}

	t, err := s.tenants.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fold(ctx, "update_tenant", err,
			on(tenant.CodeNotFound, iam.ErrNotFound),
			on(tenant.CodeNameTaken, iam.ErrAlreadyExists))
	}

	s.audit.LogTenantChange(ctx, ac.Owner, id, "update")
	view := tenant.ToView(*t)
	return &view, nil
}

// RotateTenantKey replaces the tenant's signing key. Tokens signed with
// the previous key stop verifying at once.
func (s *Service) RotateTenantKey(ctx context.Context, id kernel.TenantID) (*SigningKeyView, error) {
	_, ac, err := s.ownedTenant(ctx, "rotate_tenant_key", id)
	if err != nil {
		return nil, err
	}

	key, err := s.tenants.RotateKey(ctx, id)
	if err != nil {
		return nil, s.fold(ctx, "rotate_tenant_key", err,
			on(tenant.CodeNotFound, iam.ErrNotFound),
			on(signingkey.CodeNotFound, iam.ErrNotFound))
	}

	s.audit.LogTenantChange(ctx, ac.Owner, id, "rotate_key")
	return toKeyView(key), nil
}

func (s *Service) DeleteTenant(ctx context.Context, id kernel.TenantID) error {
	_, ac, err := s.ownedTenant(ctx, "delete_tenant", id)
	if err != nil {
		return err
	}

	if err := s.tenants.Delete(ctx, id); err != nil {
		return s.fold(ctx, "delete_tenant", err,
			on(tenant.CodeNotFound, iam.ErrNotFound))
	}

	s.audit.LogTenantChange(ctx, ac.Owner, id, "delete")
	return nil
}

// GetTenantSigningKey hands the key material to the tenant's owner so
// the tenant can verify tokens locally.
func (s *Service) GetTenantSigningKey(ctx context.Context, id kernel.TenantID) (*SigningKeyView, error) {
	if _, _, err := s.ownedTenant(ctx, "get_tenant_key", id); err != nil {
		return nil, err
	}

	key, err := s.keys.Get(ctx, id)
	if err != nil {
		return nil, s.fold(ctx, "get_tenant_key", err,
			on(signingkey.CodeNotFound, iam.ErrNotFound))
	}
	return toKeyView(key), nil
}

func (s *Service) ownedTenant(ctx context.Context, op string, id kernel.TenantID) (*tenant.Tenant, *kernel.AuthContext, error) {
	ac, err := principal(ctx)
	if err != nil {
		return nil, nil, err
	}

	t, err := s.tenants.FindByPublicID(ctx, id)
	if err != nil {
		return nil, nil, s.fold(ctx, op, err, on(tenant.CodeNotFound, iam.ErrNotFound))
	}
	if !ac.Owns(t.OwnerRef) {
		s.logger.WithFields(logx.Fields{
			"op":        op,
			"tenant_id": id,
			"actor":     ac.Owner,
		}).WithContext(ctx).Warn("tenant access denied")
		return nil, nil, iam.ErrAccessDenied()
	}
	return t, ac, nil
}

func principal(ctx context.Context) (*kernel.AuthContext, error) {
	ac, ok := kernel.AuthContextFrom(ctx)
	if !ok {
		return nil, iam.ErrUnauthorized()
	}
	if !ac.IsOrganization() {
		return nil, iam.ErrAccessDenied()
	}
	return ac, nil
}
