// Package dbxtest opens the Postgres database used by integration tests.
package dbxtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Abraxas-365/cauth/migrations"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const EnvDSN = "CAUTH_TEST_POSTGRES_DSN"

// Open skips the test unless CAUTH_TEST_POSTGRES_DSN is set. It applies
// the schema and empties every table.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE users, signing_keys, tenants, organizations`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}
