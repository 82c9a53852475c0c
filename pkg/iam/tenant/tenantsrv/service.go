package tenantsrv

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/credential"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/Abraxas-365/cauth/pkg/ptrx"
	"github.com/google/uuid"
)

// KeyRegistry is the part of signingkeysrv.Registry the directory needs.
type KeyRegistry interface {
	Create(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error)
	Rotate(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error)
	Delete(ctx context.Context, tenantID kernel.TenantID) (bool, error)
}

const maxPublicIDAttempts = 3

// Directory owns tenant registration and lookup. A tenant returned by
// Register always has a signing key.
type Directory struct {
	repo   tenant.Repository
	owners tenant.OwnerDirectory
	keys   KeyRegistry
	hasher credential.Hasher
	gen    codegen.Generator
	logger *logx.Logger
	now    func() time.Time

	decoyOnce sync.Once
	decoy     string
}

func NewDirectory(
	repo tenant.Repository,
	owners tenant.OwnerDirectory,
	keys KeyRegistry,
	hasher credential.Hasher,
	gen codegen.Generator,
	logger *logx.Logger,
) *Directory {
	return &Directory{
		repo:   repo,
		owners: owners,
		keys:   keys,
		hasher: hasher,
		gen:    gen,
		logger: logger.With(logx.Fields{"component": "tenant"}),
		now:    time.Now,
	}
}

func (d *Directory) Register(ctx context.Context, req tenant.RegisterRequest) (*tenant.Tenant, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := d.owners.Exists(ctx, req.OwnerRef)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, tenant.ErrOwnerNotFound().WithDetail("owner", req.OwnerRef.String())
	}

	// Advisory only: the unique index decides under concurrency.
	taken, err := d.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, tenant.ErrNameTaken().WithDetail("name", req.Name)
	}

	hashed, err := d.hasher.Hash(req.Secret)
	if err != nil {
		return nil, err
	}

	t := tenant.Tenant{
		ID:           uuid.New(),
		OwnerRef:     req.OwnerRef,
		HashedSecret: hashed,
		Name:         req.Name,
		CallbackURLs: append([]string{}, req.CallbackURLs...),
		RegisteredAt: d.now().UTC(),
	}
	if err := d.create(ctx, &t); err != nil {
		return nil, err
	}

	if _, err := d.keys.Create(ctx, t.PublicID); err != nil {
		d.compensate(t.PublicID, err)
		return nil, err
	}

	d.logger.WithFields(logx.Fields{
		"tenant_id": t.PublicID,
		"owner":     t.OwnerRef,
	}).Info("tenant registered")
	return &t, nil
}

// create assigns a fresh public id, retrying on the rare collision.
func (d *Directory) create(ctx context.Context, t *tenant.Tenant) error {
	var lastErr error
	for range maxPublicIDAttempts {
		id, err := d.gen.PublicID(codegen.TenantPrefix, t.RegisteredAt)
		if err != nil {
			return err
		}
		t.PublicID = kernel.TenantID(id)

		lastErr = d.repo.Create(ctx, *t)
		if !errx.HasCode(lastErr, tenant.CodePublicIDCollision) {
			return lastErr
		}
		d.logger.WithField("tenant_id", t.PublicID).Warn("public id collision, regenerating")
	}
	return lastErr
}

// compensate removes a tenant whose key could not be stored. It runs on
// a fresh context so a cancelled request still cleans up.
func (d *Directory) compensate(id kernel.TenantID, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := d.logger.WithFields(logx.Fields{"tenant_id": id}).WithError(cause)
	if _, err := d.repo.Delete(ctx, id); err != nil {
		entry.WithField("compensation_error", err.Error()).Error("failed to roll back tenant without signing key")
		return
	}
	entry.Warn("tenant registration rolled back")
}

// Verify checks a tenant's secret. Unknown tenants and wrong secrets are
// indistinguishable to the caller.
func (d *Directory) Verify(ctx context.Context, id kernel.TenantID, secret string) (*tenant.Tenant, error) {
	t, err := d.repo.FindByPublicID(ctx, id)
	if err != nil {
		if errx.HasCode(err, tenant.CodeNotFound) {
			d.hasher.Verify(secret, d.decoyHash())
			return nil, tenant.ErrInvalidCredentials()
		}
		return nil, err
	}
	if !d.hasher.Verify(secret, t.HashedSecret) {
		return nil, tenant.ErrInvalidCredentials()
	}
	return t, nil
}

// decoyHash keeps the unknown-tenant path about as slow as a real check.
func (d *Directory) decoyHash() string {
	d.decoyOnce.Do(func() {
		material, err := d.gen.Code(32)
		if err != nil {
			return
		}
		d.decoy, _ = d.hasher.Hash(material)
	})
	return d.decoy
}

func (d *Directory) FindByPublicID(ctx context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	return d.repo.FindByPublicID(ctx, id)
}

func (d *Directory) FindByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	return d.repo.FindByName(ctx, strings.TrimSpace(name))
}

func (d *Directory) ExistsByOwner(ctx context.Context, owner kernel.OwnerRef) (bool, error) {
	return d.repo.ExistsByOwner(ctx, owner)
}

func (d *Directory) ListByOwner(ctx context.Context, owner kernel.OwnerRef, opts kernel.PaginationOptions) (kernel.Paginated[tenant.Tenant], error) {
	return d.repo.ListByOwner(ctx, owner, opts)
}

func (d *Directory) Update(ctx context.Context, id kernel.TenantID, patch tenant.Patch) (*tenant.Tenant, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := d.repo.FindByPublicID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := tenant.Changes{Name: patch.Name, CallbackURLs: patch.CallbackURLs}
	if patch.Secret != nil {
		hashed, err := d.hasher.Hash(*patch.Secret)
		if err != nil {
			return nil, err
		}
		changes.HashedSecret = ptrx.To(hashed)
	}

	updated := tenant.ApplyChanges(*current, changes)
	if err := d.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	d.logger.WithFields(logx.Fields{
		"tenant_id":      id,
		"name_changed":   patch.Name != nil,
		"secret_changed": patch.Secret != nil,
		"urls_changed":   patch.CallbackURLs != nil,
	}).Info("tenant updated")
	return &updated, nil
}

func (d *Directory) RotateKey(ctx context.Context, id kernel.TenantID) (*signingkey.SigningKey, error) {
	if _, err := d.repo.FindByPublicID(ctx, id); err != nil {
		return nil, err
	}
	return d.keys.Rotate(ctx, id)
}

// Delete removes the signing key first so a half-finished delete never
// leaves a usable key behind.
func (d *Directory) Delete(ctx context.Context, id kernel.TenantID) error {
	if _, err := d.repo.FindByPublicID(ctx, id); err != nil {
		return err
	}
	if _, err := d.keys.Delete(ctx, id); err != nil {
		return err
	}
	removed, err := d.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return tenant.ErrNotFound().WithDetail("tenant_id", id.String())
	}

	d.logger.WithField("tenant_id", id).Info("tenant deleted")
	return nil
}
