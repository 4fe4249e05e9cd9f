package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"radio-cms/domain"
	"radio-cms/middleware"
	"radio-cms/pkg/log"
	"radio-cms/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthUsecase struct {
	domain.AuthUsecase
	err error
}

func (s stubAuthUsecase) Login(_ context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.AuthResponse{User: &domain.User{Email: req.Email}, AccessToken: "tok", ExpiresAt: 1}, nil
}

func newRouter(uc domain.AuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.RegisterValidatorWithGin()
	r := gin.New()
	m := middleware.NewMiddlewares(middleware.Dependencies{Logger: log.NewNopLogger()})
	NewAuthHandler(uc, m).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func login(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	r := newRouter(stubAuthUsecase{})

	w := login(r, `{"email":"editor@radio.example","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"tok"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = login(r, `{"email":"not-an-email","password":"correct horse"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := newRouter(stubAuthUsecase{err: domain.ErrInvalidCredentials})

	w := login(r, `{"email":"editor@radio.example","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}
