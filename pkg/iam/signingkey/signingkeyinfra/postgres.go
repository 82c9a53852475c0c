package signingkeyinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/cauth/pkg/dbx"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

type PostgresSigningKeyRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresSigningKeyRepository(db *sqlx.DB, timeout time.Duration) *PostgresSigningKeyRepository {
	return &PostgresSigningKeyRepository{db: db, timeout: timeout}
}

var _ signingkey.Repository = (*PostgresSigningKeyRepository)(nil)

func (r *PostgresSigningKeyRepository) Create(ctx context.Context, key signingkey.SigningKey) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO signing_keys (tenant_public_id, secret_material, created_at, rotated_at)
		VALUES (:tenant_public_id, :secret_material, :created_at, :rotated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, key); err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return signingkey.ErrAlreadyExists().WithDetail("tenant_id", key.TenantID.String())
		}
		if dbx.IsForeignKeyViolation(err) {
			return errx.Wrap(err, "signing key references unknown tenant", errx.TypeInternal).
				WithDetail("tenant_id", key.TenantID.String())
		}
		return errx.Storage(err, "failed to create signing key").WithDetail("tenant_id", key.TenantID.String())
	}
	return nil
}

func (r *PostgresSigningKeyRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var key signingkey.SigningKey
	query := `SELECT tenant_public_id, secret_material, created_at, rotated_at FROM signing_keys WHERE tenant_public_id = $1`
	if err := r.db.GetContext(ctx, &key, query, tenantID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingkey.ErrNotFound()
		}
		return nil, errx.Storage(err, "failed to find signing key").WithDetail("tenant_id", tenantID.String())
	}
	return &key, nil
}

func (r *PostgresSigningKeyRepository) Replace(ctx context.Context, tenantID kernel.TenantID, material string, rotatedAt time.Time) (*signingkey.SigningKey, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var key signingkey.SigningKey
	query := `
		UPDATE signing_keys SET secret_material = $2, rotated_at = $3
		WHERE tenant_public_id = $1
		RETURNING tenant_public_id, secret_material, created_at, rotated_at`
	if err := r.db.GetContext(ctx, &key, query, tenantID.String(), material, rotatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingkey.ErrNotFound()
		}
		return nil, errx.Storage(err, "failed to rotate signing key").WithDetail("tenant_id", tenantID.String())
	}
	return &key, nil
}

func (r *PostgresSigningKeyRepository) Delete(ctx context.Context, tenantID kernel.TenantID) (bool, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM signing_keys WHERE tenant_public_id = $1`, tenantID.String())
	if err != nil {
		return false, errx.Storage(err, "failed to delete signing key").WithDetail("tenant_id", tenantID.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	return n > 0, nil
}
