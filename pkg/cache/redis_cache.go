package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"radio-cms/pkg/log"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

type RedisCache struct {
	client redis.UniversalClient
	config *Config
	logger log.Logger
}

// NewRedisCache dials Redis and fails when the server does not answer a ping.
func NewRedisCache(config *Config, logger log.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		PoolTimeout:  config.PoolTimeout,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	c := NewRedisCacheFromClient(rdb, config, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFail, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client redis.UniversalClient, config *Config, logger log.Logger) *RedisCache {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &RedisCache{client: client, config: config, logger: logger}
}

// Redis exposes the underlying client for health checks.
func (r *RedisCache) Redis() redis.UniversalClient {
	return r.client
}

func (r *RedisCache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return r.config.DefaultTTL
	}
	return ttl
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, &Error{Operation: "get", Key: key, Err: err}
	}
	return result, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, r.ttlOrDefault(ttl)).Err(); err != nil {
		return &Error{Operation: "set", Key: key, Err: err}
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return &Error{Operation: "delete", Key: key, Err: err}
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, &Error{Operation: "exists", Key: key, Err: err}
	}
	return result > 0, nil
}

// DeletePattern walks the keyspace with SCAN rather than KEYS so it does not
// block the server on large databases.
func (r *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return &Error{Operation: "delete_pattern", Key: pattern, Err: err}
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return &Error{Operation: "delete_pattern", Key: pattern, Err: err}
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *RedisCache) Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	ttl = r.ttlOrDefault(ttl)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, delta)
		// NX keeps the window's first expiry and heals keys left without one.
		if ttl > 0 {
			pipe.ExpireNX(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return 0, &Error{Operation: "increment", Key: key, Err: err}
	}
	return incr.Val(), nil
}

func (r *RedisCache) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, LockKey(key), "locked", ttl).Result()
	if err != nil {
		return false, &Error{Operation: "lock", Key: key, Err: err}
	}
	return ok, nil
}

func (r *RedisCache) Unlock(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, LockKey(key)).Err(); err != nil {
		return &Error{Operation: "unlock", Key: key, Err: err}
	}
	return nil
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encodeJSON(key, value)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, data, ttl)
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	return decodeJSON(key, data, dest)
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &Error{Operation: "ping", Err: err}
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
