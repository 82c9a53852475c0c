package userinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/cauth/pkg/dbx"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/user"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PostgresUserRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresUserRepository(db *sqlx.DB, timeout time.Duration) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, timeout: timeout}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

type userRow struct {
	ID             uuid.UUID      `db:"id"`
	AuthID         string         `db:"auth_id"`
	Email          string         `db:"email"`
	TenantID       string         `db:"tenant_public_id"`
	HashedPassword string         `db:"hashed_password"`
	EmailVerified  bool           `db:"is_email_verified"`
	PhoneNumber    sql.NullString `db:"phone_number"`
	Role           string         `db:"role"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const selectColumns = `id, auth_id, email, tenant_public_id, hashed_password, is_email_verified, phone_number, role, created_at, updated_at`

func toRow(u user.User) userRow {
	return userRow{
		ID:             u.ID,
		AuthID:         u.AuthID.String(),
		Email:          u.Email,
		TenantID:       u.TenantID.String(),
		HashedPassword: u.HashedPassword,
		EmailVerified:  u.EmailVerified,
		PhoneNumber:    sql.NullString{String: u.PhoneNumber, Valid: u.PhoneNumber != ""},
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (row userRow) toDomain() *user.User {
	return &user.User{
		ID:             row.ID,
		AuthID:         kernel.SubjectID(row.AuthID),
		Email:          row.Email,
		TenantID:       kernel.TenantID(row.TenantID),
		HashedPassword: row.HashedPassword,
		EmailVerified:  row.EmailVerified,
		PhoneNumber:    row.PhoneNumber.String,
		Role:           row.Role,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO users (id, auth_id, email, tenant_public_id, hashed_password, is_email_verified, phone_number, role, created_at, updated_at)
		VALUES (:id, :auth_id, :email, :tenant_public_id, :hashed_password, :is_email_verified, :phone_number, :role, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(u)); err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return user.ErrAlreadyExists().WithDetail("tenant_id", u.TenantID.String())
		}
		if dbx.IsForeignKeyViolation(err) {
			return user.ErrInvalidInput("unknown tenant").WithDetail("tenant_id", u.TenantID.String())
		}
		return errx.Storage(err, "failed to create user")
	}
	return nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, tenantID kernel.TenantID, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE tenant_public_id = $1 AND email = $2`, tenantID.String(), email)
}

func (r *PostgresUserRepository) FindByAuthID(ctx context.Context, authID kernel.SubjectID) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE auth_id = $1`, authID.String())
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, authID kernel.SubjectID, hashedPassword string, at time.Time) error {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = $3 WHERE auth_id = $1`,
		authID.String(), hashedPassword, at)
	if err != nil {
		return errx.Storage(err, "failed to update password").WithDetail("auth_id", authID.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if n == 0 {
		return user.ErrNotFound().WithDetail("auth_id", authID.String())
	}
	return nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	ctx, cancel := dbx.Bound(ctx, r.timeout)
	defer cancel()

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Storage(err, "failed to find user")
	}
	return row.toDomain(), nil
}
