package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"radio-cms/common"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowSize  time.Duration
	MaxRequests int64

	KeyPrefix    string
	KeyGenerator func(*gin.Context) string

	HeaderRemainingRequests string
	HeaderRetryAfter        string
	HeaderRateLimit         string

	SkipPaths     []string
	SkipCondition func(*gin.Context) bool

	OnLimitReached func(*gin.Context, RateLimitInfo)
}

type RateLimitInfo struct {
	Key        string
	Limit      int64
	Remaining  int64
	ResetTime  time.Time
	RetryAt    time.Time
	WindowSize time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WindowSize:              time.Minute,
		MaxRequests:             100,
		KeyPrefix:               "rate_limit:",
		KeyGenerator:            defaultKeyGenerator,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
		SkipPaths:               []string{"/health", "/metrics"},
		OnLimitReached:          defaultOnLimitReached,
	}
}

func withRateLimitDefaults(config []RateLimitConfig) RateLimitConfig {
	if len(config) == 0 {
		return DefaultRateLimitConfig()
	}
	cfg := config[0]
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = defaultKeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = defaultOnLimitReached
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rate_limit:"
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = time.Minute
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 100
	}
	return cfg
}

// RateLimit counts requests per key in fixed windows stored in the cache.
// Cache failures let the request through.
func (m *middlewares) RateLimit(config ...RateLimitConfig) gin.HandlerFunc {
	cfg := withRateLimitDefaults(config)

	skipPaths := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if m.cache == nil || skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}
		if cfg.SkipCondition != nil && cfg.SkipCondition(c) {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + cfg.KeyGenerator(c)
		info, allowed, err := checkRateLimit(c.Request.Context(), m.cache, key, cfg)
		if err != nil {
			m.logger.Warn("rate limit check failed", log.String("key", key), log.Error(err))
		}

		setRateLimitHeaders(c, cfg, info)

		if !allowed {
			cfg.OnLimitReached(c, info)
			return
		}

		c.Next()
	}
}

func (m *middlewares) RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc {
	cfg := withRateLimitDefaults(config)

	originalHandler := cfg.OnLimitReached
	cfg.OnLimitReached = func(c *gin.Context, info RateLimitInfo) {
		m.logger.Warn("Rate limit exceeded",
			log.String("key", info.Key),
			log.Int64("limit", info.Limit),
			log.String("client_ip", common.GetClientIP(c)),
			log.String("path", c.Request.URL.Path),
		)
		originalHandler(c, info)
	}

	return m.RateLimit(cfg)
}

// LoginRateLimit guards credential checks per client address.
func (m *middlewares) LoginRateLimit() gin.HandlerFunc {
	return m.RateLimitWithLogger(RateLimitConfig{
		WindowSize:              5 * time.Minute,
		MaxRequests:             5,
		KeyPrefix:               "login:",
		KeyGenerator:            defaultKeyGenerator,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
	})
}

func (m *middlewares) APIRateLimits() gin.HandlerFunc {
	return m.RateLimitWithLogger(RateLimitConfig{
		WindowSize:              time.Minute,
		MaxRequests:             120,
		KeyPrefix:               "api:",
		KeyGenerator:            UserKeyGenerator,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
		SkipPaths:               []string{"/health", "/metrics", "/ws"},
	})
}

func checkRateLimit(ctx context.Context, c cache.Client, key string, cfg RateLimitConfig) (RateLimitInfo, bool, error) {
	now := time.Now()
	resetTime := now.Truncate(cfg.WindowSize).Add(cfg.WindowSize)
	info := RateLimitInfo{
		Key:        key,
		Limit:      cfg.MaxRequests,
		Remaining:  cfg.MaxRequests,
		ResetTime:  resetTime,
		WindowSize: cfg.WindowSize,
	}

	current, err := c.Increment(ctx, key, 1, cfg.WindowSize)
	if err != nil {
		return info, true, err
	}

	info.Remaining = cfg.MaxRequests - current
	if info.Remaining < 0 {
		info.Remaining = 0
	}
	info.RetryAt = resetTime
	return info, current <= cfg.MaxRequests, nil
}

func setRateLimitHeaders(c *gin.Context, cfg RateLimitConfig, info RateLimitInfo) {
	if cfg.HeaderRateLimit != "" {
		c.Header(cfg.HeaderRateLimit, strconv.FormatInt(info.Limit, 10))
	}
	if cfg.HeaderRemainingRequests != "" {
		c.Header(cfg.HeaderRemainingRequests, strconv.FormatInt(info.Remaining, 10))
	}
	if cfg.HeaderRetryAfter != "" && info.Remaining == 0 && !info.RetryAt.IsZero() {
		if retryAfterSeconds := int64(time.Until(info.RetryAt).Seconds()); retryAfterSeconds > 0 {
			c.Header(cfg.HeaderRetryAfter, strconv.FormatInt(retryAfterSeconds, 10))
		}
	}
}

func defaultKeyGenerator(c *gin.Context) string {
	return common.GetClientIP(c)
}

func defaultOnLimitReached(c *gin.Context, info RateLimitInfo) {
	message := fmt.Sprintf("Too many requests. Limit %d requests per %v", info.Limit, info.WindowSize)
	common.ResponseRateLimitExceeded(c, message, info.RetryAt)
}

// UserKeyGenerator limits authenticated callers per user and anonymous ones per address.
func UserKeyGenerator(c *gin.Context) string {
	if p := common.GetPrincipalFromCtx(c); p != nil {
		return "user:" + p.UserID
	}
	return "ip:" + common.GetClientIP(c)
}
