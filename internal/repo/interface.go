package repo

import (
	"context"
	"io/fs"
)

// Repository defines the interface for data persistence. Two backends
// implement it: Postgres (pgx) and SQLite, selected by configuration.
type Repository interface {
	// Lifecycle
	Close()
	Ping(ctx context.Context) error
	RunMigrations(ctx context.Context, filesystem fs.FS) error
	Dialect() string

	// Admin account
	GetAdmin(ctx context.Context) (*AdminUser, error)
	GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error)
	CreateAdmin(ctx context.Context, username, passwordDigest string) error
	UpdateAdminPassword(ctx context.Context, id int64, passwordDigest string) error
	UpdateAdminCredentials(ctx context.Context, id int64, username, passwordDigest string) error

	// Clients
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	CreateClient(ctx context.Context, fields map[string]any) (int64, error)
	UpdateClient(ctx context.Context, id int64, fields map[string]any) error
	DeleteClient(ctx context.Context, id int64) error
	ClearClients(ctx context.Context) error

	// Dashboard
	Stats(ctx context.Context) (*Stats, error)
}
