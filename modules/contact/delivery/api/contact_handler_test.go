package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"radio-cms/domain"
	"radio-cms/middleware"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"
	"radio-cms/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type stubContactUsecase struct {
	domain.ContactUsecase
	submitted int
}

func (s *stubContactUsecase) Submit(_ context.Context, req *domain.SubmitContactRequest) (*domain.Contact, error) {
	s.submitted++
	return &domain.Contact{Name: req.Name, Email: req.Email, Status: domain.ContactSTTNew}, nil
}

func newRouter(t *testing.T, uc domain.ContactUsecase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterValidatorWithGin()

	s := miniredis.RunT(t)
	client := cache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: s.Addr()}), &cache.Config{}, log.NewNopLogger())
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	m := middleware.NewMiddlewares(middleware.Dependencies{Cache: client, Logger: log.NewNopLogger()})
	NewContactHandler(uc, m).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func submit(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_ValidatesPhone(t *testing.T) {
	uc := &stubContactUsecase{}
	r := newRouter(t, uc)

	w := submit(r, `{"name":"Ana","email":"ana@example.com","phone":"not-a-phone","message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, uc.submitted)

	w = submit(r, `{"name":"Ana","email":"ana@example.com","phone":"+1 650-253-0000","message":"hi"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, uc.submitted)
}

func TestSubmit_RateLimitedPerIP(t *testing.T) {
	uc := &stubContactUsecase{}
	r := newRouter(t, uc)
	body := `{"name":"Ana","email":"ana@example.com","message":"hi"}`

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusCreated, submit(r, body).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, submit(r, body).Code)
	assert.Equal(t, 5, uc.submitted)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := newRouter(t, &stubContactUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
