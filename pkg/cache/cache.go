package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"radio-cms/pkg/log"
)

type Provider string

const (
	Redis  Provider = "redis"
	Memory Provider = "memory"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrConnectionFail = errors.New("cache connection failed")
	ErrSerialization  = errors.New("serialization failed")
)

type Error struct {
	Operation string
	Key       string
	Err       error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s operation failed for key '%s': %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s operation failed: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is the key/value surface shared by the Redis and in-process caches.
// A zero ttl means the configured default.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// DeletePattern removes every key matching a glob such as "menu:tree:*".
	DeletePattern(ctx context.Context, pattern string) error

	// Increment adds delta and sets ttl only when the key is created.
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error

	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error

	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	DefaultTTL time.Duration

	// In-process cache only.
	MaxSize int
}

// New builds the cache for provider, filling unset config values with defaults.
func New(provider Provider, config *Config, logger log.Logger) (Client, error) {
	if config == nil {
		config = &Config{}
	}
	switch provider {
	case Redis:
		setRedisDefaults(config)
		c, err := NewRedisCache(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		logger.Info("Redis cache created",
			log.String("addr", fmt.Sprintf("%s:%d", config.Host, config.Port)),
			log.Int("db", config.DB),
			log.Int("pool_size", config.PoolSize),
			log.Duration("default_ttl", config.DefaultTTL),
		)
		return c, nil
	case Memory:
		setMemoryDefaults(config)
		logger.Info("Memory cache created",
			log.Int("max_size", config.MaxSize),
			log.Duration("default_ttl", config.DefaultTTL),
		)
		return NewMemoryCache(config, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", provider)
	}
}

func setRedisDefaults(config *Config) {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 6379
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}
	if config.MinIdleConns == 0 {
		config.MinIdleConns = 2
	}
	if config.PoolTimeout == 0 {
		config.PoolTimeout = 4 * time.Second
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 3 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 3 * time.Second
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = time.Hour
	}
}

func setMemoryDefaults(config *Config) {
	if config.MaxSize == 0 {
		config.MaxSize = 1000
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 5 * time.Minute
	}
}
