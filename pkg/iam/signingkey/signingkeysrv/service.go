package signingkeysrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

// Registry manages the lifecycle of tenant signing keys.
type Registry struct {
	repo   signingkey.Repository
	gen    codegen.Generator
	logger *logx.Logger
	now    func() time.Time
}

func NewRegistry(repo signingkey.Repository, gen codegen.Generator, logger *logx.Logger) *Registry {
	return &Registry{
		repo:   repo,
		gen:    gen,
		logger: logger.With(logx.Fields{"component": "signingkey"}),
		now:    time.Now,
	}
}

// Create generates and stores the first key of a tenant.
func (r *Registry) Create(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error) {
	material, err := r.gen.SigningMaterial()
	if err != nil {
		return nil, err
	}

	key := signingkey.SigningKey{
		TenantID:  tenantID,
		Material:  material,
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Create(ctx, key); err != nil {
		return nil, err
	}

	r.logger.WithField("tenant_id", tenantID).Info("signing key created")
	return &key, nil
}

func (r *Registry) Get(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error) {
	return r.repo.FindByTenant(ctx, tenantID)
}

// Rotate replaces the key. Tokens signed with the old key stop
// verifying immediately.
func (r *Registry) Rotate(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error) {
	material, err := r.gen.SigningMaterial()
	if err != nil {
		return nil, err
	}

	key, err := r.repo.Replace(ctx, tenantID, material, r.now().UTC())
	if err != nil {
		return nil, err
	}

	r.logger.WithField("tenant_id", tenantID).Warn("signing key rotated")
	return key, nil
}

// Delete is idempotent.
func (r *Registry) Delete(ctx context.Context, tenantID kernel.TenantID) (bool, error) {
	removed, err := r.repo.Delete(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if removed {
		r.logger.WithField("tenant_id", tenantID).Info("signing key deleted")
	}
	return removed, nil
}
