package cache

import (
	"context"
	"testing"
	"time"

	"radio-cms/pkg/log"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	c := NewRedisCacheFromClient(client, &Config{DefaultTTL: time.Minute}, log.NewNopLogger())
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func clients(t *testing.T) map[string]Client {
	redisCache, _ := newRedisCache(t)
	return map[string]Client{
		"redis":  redisCache,
		"memory": NewMemoryCache(&Config{MaxSize: 16, DefaultTTL: time.Minute}, log.NewNopLogger()),
	}
}

func TestClient_GetSetDelete(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := c.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
			got, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)

			exists, err := c.Exists(ctx, "k")
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, c.Delete(ctx, "k"))
			exists, err = c.Exists(ctx, "k")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestClient_DeletePattern(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.Set(ctx, "menu:tree:main:any", []byte("1"), 0))
			require.NoError(t, c.Set(ctx, "menu:tree:admin_dashboard:6", []byte("2"), 0))
			require.NoError(t, c.Set(ctx, "rate_limit:127.0.0.1", []byte("3"), 0))

			require.NoError(t, c.DeletePattern(ctx, "menu:tree:*"))

			for _, key := range []string{"menu:tree:main:any", "menu:tree:admin_dashboard:6"} {
				exists, err := c.Exists(ctx, key)
				require.NoError(t, err)
				assert.False(t, exists, key)
			}
			exists, err := c.Exists(ctx, "rate_limit:127.0.0.1")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestClient_IncrementAndLock(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := c.Increment(ctx, "hits", 1, time.Minute)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
			n, err = c.Increment(ctx, "hits", 2, time.Minute)
			require.NoError(t, err)
			assert.EqualValues(t, 3, n)

			ok, err := c.Lock(ctx, "job", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = c.Lock(ctx, "job", time.Minute)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.Unlock(ctx, "job"))
			ok, err = c.Lock(ctx, "job", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestClient_JSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.SetJSON(ctx, "p", []payload{{Title: "Home", Order: 1}}, 0))

			var got []payload
			require.NoError(t, c.GetJSON(ctx, "p", &got))
			assert.Equal(t, []payload{{Title: "Home", Order: 1}}, got)
		})
	}
}

func TestRedisCache_TTL(t *testing.T) {
	c, s := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))
	s.FastForward(2 * time.Second)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisCache_IncrementKeepsFirstExpiry(t *testing.T) {
	c, s := newRedisCache(t)
	ctx := context.Background()

	_, err := c.Increment(ctx, "window", 1, 10*time.Second)
	require.NoError(t, err)
	s.FastForward(6 * time.Second)
	_, err = c.Increment(ctx, "window", 1, 10*time.Second)
	require.NoError(t, err)
	s.FastForward(5 * time.Second)

	assert.False(t, s.Exists("window"))
}

func TestRedisCache_IncrementAlwaysLeavesExpiry(t *testing.T) {
	c, s := newRedisCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "fresh", 1, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 10*time.Second, s.TTL("fresh"))

	// A counter stranded without an expiry picks one up on its next bump.
	require.NoError(t, s.Set("stranded", "3"))
	n, err = c.Increment(ctx, "stranded", 1, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, 10*time.Second, s.TTL("stranded"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(&Config{MaxSize: 4}, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(&Config{MaxSize: 2}, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
}
