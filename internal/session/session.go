// Package session holds the authenticated-admin session state behind an
// opaque token. Tokens live server-side; the cookie only carries the token.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session records one authenticated login.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions. Get returns (nil, nil) for an unknown token;
// Delete and SetUsername on an unknown token are no-ops.
type Store interface {
	Create(ctx context.Context, username string) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	SetUsername(ctx context.Context, token, username string) error
}

// MemoryStore keeps sessions in process memory. It is the fallback when no
// Redis is configured and the backend used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Create registers a new session for username and returns it.
func (s *MemoryStore) Create(_ context.Context, username string) (*Session, error) {
	sess := Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return &sess, nil
}

// Get looks a session up by token.
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// SetUsername renames the account on a live session.
func (s *MemoryStore) SetUsername(_ context.Context, token, username string) error {
	s.mu.Lock()
	if sess, ok := s.sessions[token]; ok {
		sess.Username = username
		s.sessions[token] = sess
	}
	s.mu.Unlock()
	return nil
}
