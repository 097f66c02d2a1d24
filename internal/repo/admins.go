package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const adminSelectList = "id, username, password, created_at, updated_at"

func scanAdmin(row rowScanner) (*AdminUser, error) {
	var a AdminUser
	if err := row.Scan(&a.ID, &a.Username, &a.Password, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAdmin returns the single administrator account.
func (r *PostgresRepository) GetAdmin(ctx context.Context) (*AdminUser, error) {
	q := fmt.Sprintf("SELECT %s FROM admin_users ORDER BY id LIMIT 1", adminSelectList)
	admin, err := scanAdmin(r.pool.QueryRow(ctx, q))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// GetAdminByUsername returns the account matching username.
func (r *PostgresRepository) GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error) {
	q := fmt.Sprintf("SELECT %s FROM admin_users WHERE username = $1 LIMIT 1", adminSelectList)
	admin, err := scanAdmin(r.pool.QueryRow(ctx, q, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return admin, nil
}

// CreateAdmin inserts the administrator account.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, username, passwordDigest string) error {
	const q = `INSERT INTO admin_users (username, password) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, q, username, passwordDigest); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// UpdateAdminPassword replaces the stored password digest.
func (r *PostgresRepository) UpdateAdminPassword(ctx context.Context, id int64, passwordDigest string) error {
	const q = `UPDATE admin_users SET password = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, passwordDigest); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// UpdateAdminCredentials replaces both username and password digest.
func (r *PostgresRepository) UpdateAdminCredentials(ctx context.Context, id int64, username, passwordDigest string) error {
	const q = `UPDATE admin_users SET username = $2, password = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, username, passwordDigest); err != nil {
		return fmt.Errorf("update admin credentials: %w", err)
	}
	return nil
}
