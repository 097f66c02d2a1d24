// Package creds implements the administrator credential contract: SHA-256
// hex digests with a legacy plaintext fallback, a self-healing startup
// check, and the credential-change operation.
package creds

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"placement-admin/internal/repo"
)

const (
	// DefaultUsername and DefaultPassword seed the account on first start.
	DefaultUsername = "admin"
	DefaultPassword = "admin123"

	// defaultDigest is sha256(DefaultPassword).
	defaultDigest = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

	// legacyBadDigest was written by an earlier deployment with a broken
	// hashing step. EnsureAdmin replaces it on sight.
	legacyBadDigest = "240be518fabd2724ddb6f04eeb9d5b76d76ad8f8e5d1a62bcf2caaec2b2b8b53"

	digestLength = 64
)

var (
	// ErrInvalidCredential signals a failed current-password check.
	ErrInvalidCredential = errors.New("current password is incorrect")
	// ErrUsernameTooShort signals a new username below 3 characters.
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	// ErrPasswordTooShort signals a new password below 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// HashPassword returns the hex SHA-256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify checks a plaintext password against the stored value. A 64-char
// stored value is treated as a digest; anything else is a pre-migration
// plaintext row and compared directly.
func Verify(input, stored string) bool {
	if len(stored) == digestLength {
		return HashPassword(input) == stored
	}
	return input == stored
}

// EnsureAdmin guarantees exactly one valid administrator row. A missing row
// is created with the default credentials; a stored value that is not a
// 64-char digest, or matches the known bad digest, is reset to the default.
// Safe to run on every startup.
func EnsureAdmin(ctx context.Context, r repo.Repository, logger *slog.Logger) error {
	admin, err := r.GetAdmin(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		if err := r.CreateAdmin(ctx, DefaultUsername, defaultDigest); err != nil {
			return fmt.Errorf("create default admin: %w", err)
		}
		logger.Info("created default admin account", "username", DefaultUsername)
		return nil
	}
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}

	if len(admin.Password) != digestLength || admin.Password == legacyBadDigest {
		if err := r.UpdateAdminPassword(ctx, admin.ID, defaultDigest); err != nil {
			return fmt.Errorf("repair admin password: %w", err)
		}
		logger.Warn("repaired invalid admin password digest", "username", admin.Username)
		return nil
	}

	logger.Info("admin account ok", "username", admin.Username)
	return nil
}

// Change verifies the current password, validates the new credentials and
// replaces both username and digest. The caller is responsible for renaming
// any live session.
func Change(ctx context.Context, r repo.Repository, currentPassword, newUsername, newPassword string) error {
	if len(newUsername) < 3 {
		return ErrUsernameTooShort
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	admin, err := r.GetAdmin(ctx)
	if err != nil {
		return err
	}
	if !Verify(currentPassword, admin.Password) {
		return ErrInvalidCredential
	}

	if err := r.UpdateAdminCredentials(ctx, admin.ID, newUsername, HashPassword(newPassword)); err != nil {
		return err
	}
	return nil
}
