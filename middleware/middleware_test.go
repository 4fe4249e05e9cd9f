package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	principals map[string]*domain.Principal
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, domain.ErrInvalidToken
}

func newTestMiddlewares(t *testing.T) (Middlewares, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := miniredis.RunT(t)
	client := cache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: s.Addr()}), &cache.Config{}, log.NewNopLogger())
	t.Cleanup(func() { _ = client.Close() })

	return NewMiddlewares(Dependencies{
		Cache:  client,
		Logger: log.NewNopLogger(),
		Auth: stubAuth{principals: map[string]*domain.Principal{
			"editor": {UserID: "u-edit", Role: domain.RoleIDEdit},
			"admin":  {UserID: "u-admin", Role: domain.RoleIDAdmin},
		}},
	}), s
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticator(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.GET("/me", m.Authenticator(), func(c *gin.Context) {
		c.String(http.StatusOK, common.GetPrincipalFromCtx(c).UserID)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "bogus").Code)

	w := serve(r, http.MethodGet, "/me", "editor")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-edit", w.Body.String())
}

func TestOptionalAuthenticator(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.GET("/menu", m.OptionalAuthenticator(), func(c *gin.Context) {
		if p := common.GetPrincipalFromCtx(c); p != nil {
			c.String(http.StatusOK, p.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/menu", "").Body.String())
	assert.Equal(t, "u-admin", serve(r, http.MethodGet, "/menu", "admin").Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/menu", "bogus").Code)
}

func TestOptionalAuthenticator_WebsocketQueryToken(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.GET("/ws", m.OptionalAuthenticator(), func(c *gin.Context) {
		if p := common.GetPrincipalFromCtx(c); p != nil {
			c.String(http.StatusOK, p.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	upgrade := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "u-admin", upgrade("/ws?access_token=admin").Body.String())
	assert.Equal(t, "anonymous", upgrade("/ws").Body.String())
	assert.Equal(t, http.StatusUnauthorized, upgrade("/ws?access_token=bogus").Code)
	// Plain requests never read the query token.
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/ws?access_token=admin", "").Body.String())
}

func TestRequireMinRank(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.DELETE("/news/:id", m.Authenticator(), m.RequireMinRank(domain.MinRankNewsDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/news/1", "editor").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/news/1", "admin").Code)
}

func TestRateLimit(t *testing.T) {
	m, s := newTestMiddlewares(t)
	r := gin.New()
	r.GET("/ping", m.RateLimit(RateLimitConfig{
		WindowSize:              time.Minute,
		MaxRequests:             2,
		KeyPrefix:               "test:",
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRateLimit:         "X-RateLimit-Limit",
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
	limited := serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), `"success":false`)

	s.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
}

func TestRateLimit_SkipPaths(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.Use(m.RateLimit(RateLimitConfig{MaxRequests: 1, SkipPaths: []string{"/health"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.Use(m.RequestIDMiddleware())
	r.GET("/id", func(c *gin.Context) {
		assert.Equal(t, common.RequestIDFromCtx(c), log.RequestIDFromContext(c.Request.Context()))
		c.String(http.StatusOK, common.RequestIDFromCtx(c))
	})

	w := serve(r, http.MethodGet, "/id", "")
	require.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(common.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(common.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.Use(m.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestCORS_Preflight(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	r := gin.New()
	r.Use(m.CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://radio.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://radio.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
