package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in file name order, each in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zerolog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			key    TEXT PRIMARY KEY,
			ran_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var ran []string
	if err := db.SelectContext(ctx, &ran, `SELECT key FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	done := make(map[string]bool, len(ran))
	for _, k := range ran {
		done[k] = true
	}

	keys, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(keys)

	base := NewBaseRepository(db)
	for _, key := range keys {
		if done[key] {
			continue
		}
		body, err := migrationFiles.ReadFile(key)
		if err != nil {
			return err
		}
		err = base.WithTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (key) VALUES ($1)`, key)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", key, err)
		}
		logger.Info().Str("migration", key).Msg("Applied migration")
	}
	return nil
}
