// Package migrations embeds the PostgreSQL schema.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
)

//go:embed *.sql
var files embed.FS

// Apply runs every embedded .sql file in lexical order. The scripts are
// idempotent so Apply may run on every start.
func Apply(ctx context.Context, db *database.DB) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		slog.Info("Migration applied", "file", name)
	}
	return nil
}
