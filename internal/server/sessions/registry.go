// Package sessions issues, checks and invalidates opaque bearer tokens.
//
// A Session binds a random token to one user id. Tokens are never reused:
// once invalidated or expired a token stays invalid.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Session is the server-side record for one issued token. ExpiresAt is zero
// when expiry is disabled.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether s is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Registry is the token store.
//
// Check returns common.ErrInvalidToken for an empty, unknown or invalidated
// token and common.ErrTokenExpired once the token is past its expiry.
// Invalidate of an unknown token is a no-op.
type Registry interface {
	Issue(ctx context.Context, userID string) (*Session, error)
	Check(ctx context.Context, token string) (*Session, error)
	Invalidate(ctx context.Context, token string) error
}

// newSession builds a Session with a fresh random token.
func newSession(userID string, now time.Time, ttl time.Duration) (*Session, error) {
	token, err := common.MakeRandHexString(common.TokenSize)
	if err != nil {
		return nil, err
	}
	s := &Session{Token: token, UserID: userID, IssuedAt: now}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s, nil
}
