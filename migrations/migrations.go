// Package migrations embeds the Postgres schema.
package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var files embed.FS

// Apply runs every embedded script in name order. Scripts are written to
// be re-runnable.
func Apply(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return errx.Wrap(err, "failed to list migrations", errx.TypeInternal)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return errx.Wrap(err, "failed to read migration", errx.TypeInternal).WithDetail("file", name)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return errx.Storage(err, "failed to apply migration").WithDetail("file", name)
		}
	}
	return nil
}
