package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ListClients returns every client record, most recently created first.
func (r *PostgresRepository) ListClients(ctx context.Context) ([]Client, error) {
	q := fmt.Sprintf("SELECT %s FROM clients ORDER BY id DESC", clientSelectList)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

// GetClient returns one client record by id.
func (r *PostgresRepository) GetClient(ctx context.Context, id int64) (*Client, error) {
	q := fmt.Sprintf("SELECT %s FROM clients WHERE id = $1 LIMIT 1", clientSelectList)
	c, err := scanClient(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// CreateClient inserts a record from the whitelisted subset of fields and
// returns the new id. Column names are interpolated from the fixed
// whitelist only, never from the payload.
func (r *PostgresRepository) CreateClient(ctx context.Context, fields map[string]any) (int64, error) {
	cols, vals, err := filterClientFields(fields, false)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, ErrNoData
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO clients (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	var id int64
	if err := r.pool.QueryRow(ctx, q, vals...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	return id, nil
}

// UpdateClient overwrites only the whitelisted fields present in the
// payload. updated_at is always refreshed; a missing id is not an error.
func (r *PostgresRepository) UpdateClient(ctx context.Context, id int64, fields map[string]any) error {
	cols, vals, err := filterClientFields(fields, true)
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d", strings.Join(sets, ", "), len(cols)+1)
	vals = append(vals, id)

	if _, err := r.pool.Exec(ctx, q, vals...); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// DeleteClient removes one record. Absence is not an error.
func (r *PostgresRepository) DeleteClient(ctx context.Context, id int64) error {
	const q = `DELETE FROM clients WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// ClearClients removes every record.
func (r *PostgresRepository) ClearClients(ctx context.Context) error {
	const q = `DELETE FROM clients`
	if _, err := r.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("clear clients: %w", err)
	}
	return nil
}
