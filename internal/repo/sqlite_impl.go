package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// -- Admin account --

// GetAdmin returns the single administrator account.
func (r *SQLiteRepository) GetAdmin(ctx context.Context) (*AdminUser, error) {
	q := fmt.Sprintf("SELECT %s FROM admin_users ORDER BY id LIMIT 1", adminSelectList)
	admin, err := scanAdmin(r.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// GetAdminByUsername returns the account matching username.
func (r *SQLiteRepository) GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error) {
	q := fmt.Sprintf("SELECT %s FROM admin_users WHERE username = ? LIMIT 1", adminSelectList)
	admin, err := scanAdmin(r.db.QueryRowContext(ctx, q, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return admin, nil
}

// CreateAdmin inserts the administrator account.
func (r *SQLiteRepository) CreateAdmin(ctx context.Context, username, passwordDigest string) error {
	const q = `INSERT INTO admin_users (username, password) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, username, passwordDigest); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// UpdateAdminPassword replaces the stored password digest.
func (r *SQLiteRepository) UpdateAdminPassword(ctx context.Context, id int64, passwordDigest string) error {
	const q = `UPDATE admin_users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, passwordDigest, id); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// UpdateAdminCredentials replaces both username and password digest.
func (r *SQLiteRepository) UpdateAdminCredentials(ctx context.Context, id int64, username, passwordDigest string) error {
	const q = `UPDATE admin_users SET username = ?, password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, username, passwordDigest, id); err != nil {
		return fmt.Errorf("update admin credentials: %w", err)
	}
	return nil
}

// -- Clients --

// ListClients returns every client record, most recently created first.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]Client, error) {
	q := fmt.Sprintf("SELECT %s FROM clients ORDER BY id DESC", clientSelectList)
	rows, err := r.db.QueryContext(ctx, q)
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
func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (*Client, error) {
	q := fmt.Sprintf("SELECT %s FROM clients WHERE id = ? LIMIT 1", clientSelectList)
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// CreateClient inserts a record from the whitelisted subset of fields and
// returns the new id.
func (r *SQLiteRepository) CreateClient(ctx context.Context, fields map[string]any) (int64, error) {
	cols, vals, err := filterClientFields(fields, false)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, ErrNoData
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO clients (%s) VALUES (%s)", strings.Join(cols, ", "), placeholders)

	res, err := r.db.ExecContext(ctx, q, vals...)
	if err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert client id: %w", err)
	}
	return id, nil
}

// UpdateClient overwrites only the whitelisted fields present in the
// payload. updated_at is always refreshed; a missing id is not an error.
func (r *SQLiteRepository) UpdateClient(ctx context.Context, id int64, fields map[string]any) error {
	cols, vals, err := filterClientFields(fields, true)
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := fmt.Sprintf("UPDATE clients SET %s WHERE id = ?", strings.Join(sets, ", "))
	vals = append(vals, id)

	if _, err := r.db.ExecContext(ctx, q, vals...); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// DeleteClient removes one record. Absence is not an error.
func (r *SQLiteRepository) DeleteClient(ctx context.Context, id int64) error {
	const q = `DELETE FROM clients WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// ClearClients removes every record.
func (r *SQLiteRepository) ClearClients(ctx context.Context) error {
	const q = `DELETE FROM clients`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("clear clients: %w", err)
	}
	return nil
}

// -- Dashboard --

// Stats computes the dashboard aggregates as of the moment of the call.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats

	counts := []struct {
		query string
		dest  *int64
	}{
		{statsTotalClients, &s.TotalClients},
		{statsInterviewPending, &s.InterviewPending},
		{statsInterviewPassed, &s.InterviewPassed},
		{statsVisaApproved, &s.VisaApproved},
		{statsVisaProcessing, &s.VisaProcessing},
		{statsReadyToFly, &s.ReadyToFly},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats count: %w", err)
		}
	}

	sums := []struct {
		query string
		dest  *float64
	}{
		{statsTotalAdvance, &s.TotalAdvance},
		{statsTotalFullPayment, &s.TotalFullPayment},
		{statsTotalPassportFee, &s.TotalPassportFee},
	}
	for _, c := range sums {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats sum: %w", err)
		}
	}

	s.computeRevenue()
	return &s, nil
}
