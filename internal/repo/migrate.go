package repo

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// applyPostgresMigrations executes the SQL files under postgres/ against the
// pool in lexicographical order, each file in its own transaction.
func applyPostgresMigrations(ctx context.Context, pool *pgxpool.Pool, filesystem fs.FS) error {
	files, err := listMigrationFiles(filesystem, "postgres")
	if err != nil {
		return err
	}

	for _, name := range files {
		sqlBytes, err := fs.ReadFile(filesystem, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(sqlBytes) == 0 {
			continue
		}
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(sqlBytes))
			return err
		})
		if err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}

	return nil
}

// listMigrationFiles returns the sorted file paths of one dialect directory.
func listMigrationFiles(filesystem fs.FS, dialect string) ([]string, error) {
	entries, err := fs.ReadDir(filesystem, dialect)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, dialect+"/"+entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
