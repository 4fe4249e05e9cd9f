package cache

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"radio-cms/pkg/log"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryCache is a bounded in-process LRU. Entries carry their own expiry and
// are dropped lazily on read or by size eviction.
type MemoryCache struct {
	items  *lru.LRU[string, memoryItem]
	config *Config
	logger log.Logger

	// mu serializes read-modify-write operations such as Increment and Lock.
	mu sync.Mutex
}

func NewMemoryCache(config *Config, logger log.Logger) *MemoryCache {
	if config == nil {
		config = &Config{}
	}
	setMemoryDefaults(config)
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &MemoryCache{
		items:  lru.NewLRU[string, memoryItem](config.MaxSize, nil, 0),
		config: config,
		logger: logger,
	}
}

func (m *MemoryCache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return m.config.DefaultTTL
	}
	return ttl
}

func (m *MemoryCache) lookup(key string) (memoryItem, bool) {
	item, ok := m.items.Get(key)
	if !ok {
		return memoryItem{}, false
	}
	if item.expired(time.Now()) {
		m.items.Remove(key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *MemoryCache) store(key string, value []byte, ttl time.Duration) {
	item := memoryItem{value: value}
	if ttl = m.ttlOrDefault(ttl); ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	m.items.Add(key, item)
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	item, ok := m.lookup(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	m.store(key, buf, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.items.Remove(key)
	return nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	for _, key := range m.items.Keys() {
		matched, err := filepath.Match(pattern, key)
		if err != nil {
			return &Error{Operation: "delete_pattern", Key: pattern, Err: err}
		}
		if matched {
			m.items.Remove(key)
		}
	}
	return nil
}

func (m *MemoryCache) Increment(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		m.store(key, []byte(strconv.FormatInt(delta, 10)), ttl)
		return delta, nil
	}

	current, err := strconv.ParseInt(string(item.value), 10, 64)
	if err != nil {
		return 0, &Error{Operation: "increment", Key: key, Err: err}
	}
	current += delta
	item.value = []byte(strconv.FormatInt(current, 10))
	m.items.Add(key, item)
	return current, nil
}

func (m *MemoryCache) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lockKey := LockKey(key)
	if _, held := m.lookup(lockKey); held {
		return false, nil
	}
	m.store(lockKey, []byte("locked"), ttl)
	return true, nil
}

func (m *MemoryCache) Unlock(_ context.Context, key string) error {
	m.items.Remove(LockKey(key))
	return nil
}

func (m *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encodeJSON(key, value)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, data, ttl)
}

func (m *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	return decodeJSON(key, data, dest)
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

func (m *MemoryCache) Close() error {
	m.items.Purge()
	return nil
}
