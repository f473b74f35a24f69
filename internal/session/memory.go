// internal/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Sessions are lost on restart;
// suitable for development and tests.
type MemoryStore struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*memorySession
}

type memorySession struct {
	userID  int64
	flash   string
	expires time.Time
}

// NewMemoryStore creates a MemoryStore with the given session TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*memorySession),
	}
}

// Create starts a session for the user and returns its token.
func (s *MemoryStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &memorySession{
		userID:  userID,
		expires: time.Now().Add(s.ttl),
	}
	return token, nil
}

// Get resolves a token; expired sessions are removed lazily.
func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(sess.expires) {
		delete(s.sessions, token)
		return nil, ErrNotFound
	}
	return &Session{Token: token, UserID: sess.userID}, nil
}

// Destroy removes a session.
func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// SetFlash attaches a one-shot message to the session.
func (s *MemoryStore) SetFlash(ctx context.Context, token, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return ErrNotFound
	}
	sess.flash = message
	return nil
}

// PopFlash returns and clears the session's flash message.
func (s *MemoryStore) PopFlash(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return "", nil
	}
	message := sess.flash
	sess.flash = ""
	return message, nil
}
