package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisRegistry_IssueCheckInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisRegistry(client, time.Hour)

	s, err := r.Issue(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisKey(s.Token)))
	assert.Equal(t, time.Hour, mr.TTL(redisKey(s.Token)))

	got, err := r.Check(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, s.Token, got.Token)

	require.NoError(t, r.Invalidate(ctx, s.Token))
	assert.False(t, mr.Exists(redisKey(s.Token)))

	_, err = r.Check(ctx, s.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	require.NoError(t, r.Invalidate(ctx, s.Token))
	require.NoError(t, r.Invalidate(ctx, ""))
}

func TestRedisRegistry_KeyTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisRegistry(client, time.Minute)

	s, err := r.Issue(ctx, "u1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = r.Check(ctx, s.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRedisRegistry_ExpiresAtChecked(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisRegistry(client, time.Minute)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s, err := r.Issue(ctx, "u1")
	require.NoError(t, err)

	// key still present, but the stored expiry has passed
	now = now.Add(time.Minute)
	_, err = r.Check(ctx, s.Token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.False(t, mr.Exists(redisKey(s.Token)))
}

func TestRedisRegistry_NoTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisRegistry(client, 0)

	s, err := r.Issue(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.Equal(t, time.Duration(0), mr.TTL(redisKey(s.Token)))

	stored, err := mr.Get(redisKey(s.Token))
	require.NoError(t, err)
	assert.Contains(t, stored, `"expires_at":"0001-01-01T00:00:00Z"`)

	got, err := r.Check(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.IsZero(), "zero expiry survives the round trip")
}

func TestRedisRegistry_Errors(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisRegistry(client, time.Minute)

	_, err := r.Check(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = r.Issue(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	require.NoError(t, mr.Set(redisKey("garbage"), "{not json"))
	_, err = r.Check(ctx, "garbage")
	assert.ErrorContains(t, err, "error decoding session")

	mr.SetError("LOADING")
	_, err = r.Issue(ctx, "u1")
	assert.ErrorContains(t, err, "redis error")
	_, err = r.Check(ctx, "abc")
	assert.ErrorContains(t, err, "redis error")
	assert.ErrorContains(t, r.Invalidate(ctx, "abc"), "redis error")
}

func TestRegistries_ImplementInterface(t *testing.T) {
	var _ Registry = (*MemoryRegistry)(nil)
	var _ Registry = (*RedisRegistry)(nil)
}
