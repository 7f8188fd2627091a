package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/alexisbeaulieu97/signin/internal/ports"
	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

//go:embed migrations
var embeddedMigrations embed.FS

// runMigrations applies every embedded *.up.sql for dbType that is not yet
// recorded in schema_migrations, each in its own transaction.
func runMigrations(ctx context.Context, db *bun.DB, dbType string, log ports.Logger) error {
	dir := path.Join("migrations", dbType)
	entries, err := fs.ReadDir(embeddedMigrations, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.NewStoreError("read migrations", err)
	}

	var ups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if err := ensureSchemaMigrations(ctx, db, dbType); err != nil {
		return apperrors.NewStoreError("create schema_migrations", err)
	}

	for _, name := range ups {
		version := strings.TrimSuffix(name, ".up.sql")

		applied, err := migrationApplied(ctx, db, version)
		if err != nil {
			return apperrors.NewStoreError("check migration "+version, err)
		}
		if applied {
			continue
		}

		data, err := embeddedMigrations.ReadFile(path.Join(dir, name))
		if err != nil {
			return apperrors.NewStoreError("read migration "+version, err)
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(data)); err != nil {
				return fmt.Errorf("execute: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				version, time.Now().UTC()); err != nil {
				return fmt.Errorf("record: %w", err)
			}
			return nil
		})
		if err != nil {
			return apperrors.NewStoreError("apply migration "+version, err)
		}
		log.Info(ctx, "migration applied", "version", version)
	}
	return nil
}

func ensureSchemaMigrations(ctx context.Context, db *bun.DB, dbType string) error {
	// MySQL cannot index TEXT without a length.
	ddl := `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP)`
	if dbType == TypeMySQL {
		ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) PRIMARY KEY, applied_at TIMESTAMP NULL)`
	}
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func migrationApplied(ctx context.Context, db *bun.DB, version string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM schema_migrations WHERE version = ?", version).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}
