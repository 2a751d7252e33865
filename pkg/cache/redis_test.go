package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client, "ekyc-test:")
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Score int `json:"score"`
	}

	require.NoError(t, c.Set(ctx, "score:1", payload{Score: 72}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "score:1", &got))
	assert.Equal(t, 72, got.Score)

	require.NoError(t, c.Delete(ctx, "score:1"))
	assert.ErrorIs(t, c.Get(ctx, "score:1", &got), ErrCacheMiss)
}
