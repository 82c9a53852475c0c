package organizationinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/cauth/pkg/dbx"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/organization"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PostgresOrganizationRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresOrganizationRepository(db *sqlx.DB, timeout time.Duration) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{db: db, timeout: timeout}
}

var _ organization.Repository = (*PostgresOrganizationRepository)(nil)

type orgRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"org_name"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Active         bool      `db:"is_active"`
	JoinedAt       time.Time `db:"joined_on"`
	Role           string    `db:"role"`
}

func (row orgRow) toDomain() *organization.Organization {
	return &organization.Organization{
		ID:             row.ID,
		Name:           row.Name,
		Email:          kernel.OwnerRef(row.Email),
		HashedPassword: row.HashedPassword,
		Active:         row.Active,
		JoinedAt:       row.JoinedAt,
		Role:           row.Role,
	}
}

func (r *PostgresOrganizationRepository) Create(ctx context.Context, o organization.Organization) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	row := orgRow{
		ID:             o.ID,
		Name:           o.Name,
		Email:          o.Email.String(),
		HashedPassword: o.HashedPassword,
		Active:         o.Active,
		JoinedAt:       o.JoinedAt,
		Role:           o.Role,
	}
	query := `
		INSERT INTO organizations (id, org_name, email, hashed_password, is_active, joined_on, role)
		VALUES (:id, :org_name, :email, :hashed_password, :is_active, :joined_on, :role)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return organization.ErrAlreadyExists().WithDetail("email", o.Email.String())
		}
		return errx.Storage(err, "failed to create organization")
	}
	return nil
}

func (r *PostgresOrganizationRepository) FindByEmail(ctx context.Context, email kernel.OwnerRef) (*organization.Organization, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var row orgRow
	query := `SELECT id, org_name, email, hashed_password, is_active, joined_on, role FROM organizations WHERE email = $1`
	if err := r.db.GetContext(ctx, &row, query, email.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, organization.ErrNotFound()
		}
		return nil, errx.Storage(err, "failed to find organization")
	}
	return row.toDomain(), nil
}

func (r *PostgresOrganizationRepository) ExistsByEmail(ctx context.Context, email kernel.OwnerRef) (bool, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT EXISTS(SELECT 1 FROM organizations WHERE email = $1)`, email.String()); err != nil {
		return false, errx.Storage(err, "failed to check organization existence")
	}
	return ok, nil
}
