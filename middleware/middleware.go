package middleware

import (
	"context"

	"radio-cms/domain"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Rate limiting middlewares
	RateLimit(config ...RateLimitConfig) gin.HandlerFunc
	RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc
	LoginRateLimit() gin.HandlerFunc
	APIRateLimits() gin.HandlerFunc

	// Logging middlewares
	LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc
	Recovery() gin.HandlerFunc

	// CORS middlewares
	CORS(config ...CORSConfig) gin.HandlerFunc

	// Authentication middlewares
	Authenticator() gin.HandlerFunc
	OptionalAuthenticator() gin.HandlerFunc
	RequireMinRank(min domain.RoleID) gin.HandlerFunc
}

// TokenAuthenticator resolves a bearer token to the caller.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error)
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Cache  cache.Client
	Logger log.Logger
	Auth   TokenAuthenticator
}

func NewMiddlewares(deps Dependencies) Middlewares {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &middlewares{
		cache:  deps.Cache,
		logger: logger,
		auth:   deps.Auth,
	}
}

type middlewares struct {
	cache  cache.Client
	logger log.Logger
	auth   TokenAuthenticator
}
