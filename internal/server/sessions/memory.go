package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// sweepInterval bounds how often Issue scans the whole map for expired
// sessions.
const sweepInterval = time.Minute

// MemoryRegistry keeps sessions in a map guarded by a RWMutex. An expired
// entry is dropped when it is next looked up, and Issue sweeps out the rest
// at most once per sweepInterval.
type MemoryRegistry struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryRegistry returns an empty registry. ttl ≤ 0 disables expiry.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemoryRegistry) Issue(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, common.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	r.sweepLocked(now)

	// a collision of 32 random bytes is not expected, but never overwrite
	for range 3 {
		s, err := newSession(userID, now, r.ttl)
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}
		if _, exists := r.sessions[s.Token]; exists {
			continue
		}
		r.sessions[s.Token] = *s
		return s, nil
	}
	return nil, common.ErrorInternal
}

func (r *MemoryRegistry) Check(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrInvalidToken
	}

	if s.Expired(r.now()) {
		r.mu.Lock()
		delete(r.sessions, token)
		r.mu.Unlock()
		return nil, common.ErrTokenExpired
	}

	return &s, nil
}

func (r *MemoryRegistry) Invalidate(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// sweepLocked removes expired sessions. r.mu must be held for writing.
func (r *MemoryRegistry) sweepLocked(now time.Time) {
	if r.ttl <= 0 || now.Sub(r.lastSweep) < sweepInterval {
		return
	}
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
		}
	}
	r.lastSweep = now
}
