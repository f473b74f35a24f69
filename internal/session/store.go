// internal/session/store.go
package session

import (
	"context"
	"errors"
)

// ErrNotFound indicates the token does not name a live session.
var ErrNotFound = errors.New("session: not found")

// IsNotFound reports whether err indicates a missing or expired session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Session is the server-side state behind one opaque cookie token.
type Session struct {
	Token  string
	UserID int64
}

// Store manages sessions keyed by opaque token. Implementations must
// generate unguessable tokens and expire sessions after their TTL.
type Store interface {
	// Create starts a session for the user and returns its token.
	Create(ctx context.Context, userID int64) (string, error)
	// Get resolves a token, returning ErrNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)
	// Destroy removes a session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
	// SetFlash attaches a one-shot message to the session.
	SetFlash(ctx context.Context, token, message string) error
	// PopFlash returns and clears the session's flash message, if any.
	PopFlash(ctx context.Context, token string) (string, error)
}
