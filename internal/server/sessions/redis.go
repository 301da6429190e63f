package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "auth:session:"

// RedisRegistry stores one key per token. The key carries the session TTL,
// so redis drops expired sessions on its own; ExpiresAt is still checked on
// read to cover clock skew between the key TTL and the stored value.
type RedisRegistry struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisRegistry wraps an existing client. ttl ≤ 0 disables expiry and the
// keys are written without TTL.
func NewRedisRegistry(client redis.UniversalClient, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, ttl: ttl, now: time.Now}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisRegistry) Issue(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, common.ErrInvalidInput
	}

	for range 3 {
		s, err := newSession(userID, r.now().UTC(), r.ttl)
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}

		payload, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("error encoding session: %w", err)
		}

		var expiration time.Duration
		if r.ttl > 0 {
			expiration = r.ttl
		}

		ok, err := r.client.SetNX(ctx, redisKey(s.Token), payload, expiration).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error: %w", err)
		}
		if ok {
			return s, nil
		}
	}
	return nil, common.ErrorInternal
}

func (r *RedisRegistry) Check(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	raw, err := r.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("error decoding session: %w", err)
	}

	if s.Expired(r.now()) {
		_ = r.client.Del(ctx, redisKey(token)).Err()
		return nil, common.ErrTokenExpired
	}

	return &s, nil
}

func (r *RedisRegistry) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
