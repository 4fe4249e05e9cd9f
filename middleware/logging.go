package middleware

import (
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoggerConfig struct {
	// SkipPaths is an url path array which logs are not written.
	SkipPaths []string
}

// LoggingMiddleware logs one line per request through the structured logger.
// Server errors are logged at error level and client errors at warn level.
func (m *middlewares) LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc {
	var conf LoggerConfig
	if len(config) > 0 {
		conf = config[0]
	}

	skipPaths := make(map[string]bool, len(conf.SkipPaths))
	for _, path := range conf.SkipPaths {
		skipPaths[path] = true
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			if skipPaths[param.Path] {
				return ""
			}

			latency := param.Latency
			if latency > time.Minute {
				latency = latency.Truncate(time.Second)
			}

			fields := []log.Field{
				log.String("method", param.Method),
				log.String("path", param.Path),
				log.Int("status_code", param.StatusCode),
				log.Duration("latency", latency),
				log.String("client_ip", param.ClientIP),
				log.String("user_agent", param.Request.UserAgent()),
			}
			if requestID, ok := param.Keys[common.RequestIDContextKey].(string); ok && requestID != "" {
				fields = append(fields, log.RequestID(requestID))
			}
			if p, ok := param.Keys[common.PrincipalContextKey].(*domain.Principal); ok && p != nil {
				fields = append(fields, log.UserID(p.UserID))
			}
			if param.ErrorMessage != "" {
				fields = append(fields, log.String("error", param.ErrorMessage))
			}

			switch {
			case param.StatusCode >= http.StatusInternalServerError:
				m.logger.Error("HTTP Request", fields...)
			case param.StatusCode >= http.StatusBadRequest:
				m.logger.Warn("HTTP Request", fields...)
			default:
				m.logger.Info("HTTP Request", fields...)
			}
			return ""
		},
		Output: io.Discard,
	})
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new one and
// exposes it to handlers, logs and the response.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(common.RequestIDContextKey, requestID)
		c.Header(common.RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(log.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Recovery turns handler panics into a 500 envelope.
func (m *middlewares) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		m.logger.ErrorContext(c.Request.Context(), "panic recovered",
			log.Any("panic", recovered),
			log.String("path", c.Request.URL.Path),
			log.String("stack", string(debug.Stack())),
		)
		common.ResponseError(c, domain.ErrInternalServerError)
	})
}
