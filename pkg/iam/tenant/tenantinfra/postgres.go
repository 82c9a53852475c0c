package tenantinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/cauth/pkg/dbx"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	nameConstraint     = "tenants_name_key"
	publicIDConstraint = "tenants_public_id_key"
)

type PostgresTenantRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresTenantRepository(db *sqlx.DB, timeout time.Duration) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db, timeout: timeout}
}

var _ tenant.Repository = (*PostgresTenantRepository)(nil)

type tenantRow struct {
	ID           uuid.UUID      `db:"id"`
	PublicID     string         `db:"public_id"`
	OwnerRef     string         `db:"owner_ref"`
	HashedSecret string         `db:"hashed_secret"`
	Name         string         `db:"name"`
	CallbackURLs pq.StringArray `db:"callback_urls"`
	RegisteredAt time.Time      `db:"registered_at"`
}

const selectColumns = `id, public_id, owner_ref, hashed_secret, name, callback_urls, registered_at`

func toRow(t tenant.Tenant) tenantRow {
	urls := pq.StringArray(t.CallbackURLs)
	if urls == nil {
		urls = pq.StringArray{}
	}
	return tenantRow{
		ID:           t.ID,
		PublicID:     t.PublicID.String(),
		OwnerRef:     t.OwnerRef.String(),
		HashedSecret: t.HashedSecret,
		Name:         t.Name,
		CallbackURLs: urls,
		RegisteredAt: t.RegisteredAt,
	}
}

func (row tenantRow) toDomain() *tenant.Tenant {
	return &tenant.Tenant{
		ID:           row.ID,
		PublicID:     kernel.TenantID(row.PublicID),
		OwnerRef:     kernel.OwnerRef(row.OwnerRef),
		HashedSecret: row.HashedSecret,
		Name:         row.Name,
		CallbackURLs: []string(row.CallbackURLs),
		RegisteredAt: row.RegisteredAt,
	}
}

func (r *PostgresTenantRepository) Create(ctx context.Context, t tenant.Tenant) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO tenants (id, public_id, owner_ref, hashed_secret, name, callback_urls, registered_at)
		VALUES (:id, :public_id, :owner_ref, :hashed_secret, :name, :callback_urls, :registered_at)`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(t)); err != nil {
		return r.mapWriteError(err, t)
	}
	return nil
}

func (r *PostgresTenantRepository) FindByPublicID(ctx context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM tenants WHERE public_id = $1`, id.String())
}

func (r *PostgresTenantRepository) FindByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM tenants WHERE name = $1`, name)
}

func (r *PostgresTenantRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM tenants WHERE name = $1)`, name)
}

func (r *PostgresTenantRepository) ExistsByOwner(ctx context.Context, owner kernel.OwnerRef) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM tenants WHERE owner_ref = $1)`, owner.String())
}

func (r *PostgresTenantRepository) ListByOwner(ctx context.Context, owner kernel.OwnerRef, opts kernel.PaginationOptions) (kernel.Paginated[tenant.Tenant], error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	opts = opts.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tenants WHERE owner_ref = $1`, owner.String()); err != nil {
		return kernel.Paginated[tenant.Tenant]{}, errx.Storage(err, "failed to count tenants").WithDetail("owner", owner.String())
	}

	var rows []tenantRow
	query := `SELECT ` + selectColumns + ` FROM tenants WHERE owner_ref = $1
		ORDER BY registered_at DESC, public_id
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, owner.String(), opts.PageSize, opts.Offset()); err != nil {
		return kernel.Paginated[tenant.Tenant]{}, errx.Storage(err, "failed to list tenants").WithDetail("owner", owner.String())
	}

	items := make([]tenant.Tenant, 0, len(rows))
	for _, row := range rows {
		items = append(items, *row.toDomain())
	}
	return kernel.NewPaginated(items, opts.Page, opts.PageSize, total), nil
}

func (r *PostgresTenantRepository) Update(ctx context.Context, t tenant.Tenant) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE tenants SET
			hashed_secret = :hashed_secret,
			name = :name,
			callback_urls = :callback_urls
		WHERE public_id = :public_id`

	res, err := r.db.NamedExecContext(ctx, query, toRow(t))
	if err != nil {
		return r.mapWriteError(err, t)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if n == 0 {
		return tenant.ErrNotFound().WithDetail("tenant_id", t.PublicID.String())
	}
	return nil
}

func (r *PostgresTenantRepository) Delete(ctx context.Context, id kernel.TenantID) (bool, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE public_id = $1`, id.String())
	if err != nil {
		return false, errx.Storage(err, "failed to delete tenant").WithDetail("tenant_id", id.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	return n > 0, nil
}

func (r *PostgresTenantRepository) getOne(ctx context.Context, query string, arg string) (*tenant.Tenant, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var row tenantRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrNotFound()
		}
		return nil, errx.Storage(err, "failed to find tenant")
	}
	return row.toDomain(), nil
}

func (r *PostgresTenantRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, arg); err != nil {
		return false, errx.Storage(err, "failed to check tenant existence")
	}
	return ok, nil
}

func (r *PostgresTenantRepository) mapWriteError(err error, t tenant.Tenant) error {
	switch {
	case dbx.IsUniqueViolation(err, nameConstraint):
		return tenant.ErrNameTaken().WithDetail("name", t.Name)
	case dbx.IsUniqueViolation(err, publicIDConstraint):
		return tenant.ErrPublicIDCollision().WithDetail("tenant_id", t.PublicID.String())
	default:
		return errx.Storage(err, "failed to write tenant").WithDetail("tenant_id", t.PublicID.String())
	}
}
