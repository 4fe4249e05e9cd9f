package common

import (
	"fmt"
	"net/http"
	"time"

	"radio-cms/domain"
	"radio-cms/validator"

	"github.com/gin-gonic/gin"
)

// ResponseT is the envelope of every JSON response.
type ResponseT[T any] struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    T                      `json:"data"`
	Code    string                 `json:"code,omitempty"`
	ID      string                 `json:"id,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

var logger Logger

func SetLogger(l Logger) {
	logger = l
}

func write[T any](c *gin.Context, status int, body ResponseT[T]) {
	c.AbortWithStatusJSON(status, body)
}

func ResponseOK[T any](c *gin.Context, data T, message string) {
	write(c, http.StatusOK, ResponseT[T]{Success: true, Message: message, Data: data})
}

func ResponseCreated[T any](c *gin.Context, data T, message string) {
	write(c, http.StatusCreated, ResponseT[T]{Success: true, Message: message, Data: data})
}

func ResponsePage[T any](c *gin.Context, items []T, pagination *domain.Pagination, message string) {
	if items == nil {
		items = []T{}
	}
	write(c, http.StatusOK, ResponseT[gin.H]{
		Success: true,
		Message: message,
		Data:    gin.H{"items": items, "pagination": pagination},
	})
}

// ResponseError renders err with its status code. Errors outside the domain
// taxonomy become 500.
func ResponseError(c *gin.Context, err error) {
	responseError[any](c, err, nil)
}

// ResponseReadError is ResponseError for read paths: the body still carries
// an empty list so clients can render without special casing.
func ResponseReadError(c *gin.Context, err error) {
	responseError(c, err, []any{})
}

func responseError[T any](c *gin.Context, err error, data T) {
	dErr, ok := IsDetailError(err)
	if !ok {
		dErr = domain.ErrInternalServerError.WithWrap(err)
	}
	if rid := RequestIDFromCtx(c); rid != "" {
		dErr = dErr.WithRequestID(rid)
	}

	message := dErr.Error()
	if reason := dErr.Reason(); reason != "" {
		message = fmt.Sprintf("%s: %s", message, reason)
	}
	if status := dErr.StatusCode(); status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			"error", err,
			"status", status,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", dErr.RequestID(),
		)
	}
	write(c, dErr.StatusCode(), ResponseT[T]{
		Success: false,
		Message: message,
		Data:    data,
		Code:    dErr.Status(),
		ID:      dErr.ID(),
		Details: dErr.Details(),
	})
}

// ResponseBindError turns a binding or validation failure into a 400.
func ResponseBindError(c *gin.Context, err error) {
	dErr := domain.ErrBadRequest.WithReason(validator.Translate(err))
	if fields := validator.FieldErrors(err); len(fields) > 0 {
		dErr = dErr.WithDetail("fields", fields)
	}
	ResponseError(c, dErr)
}

func ResponseBadRequest(c *gin.Context, reason string) {
	ResponseError(c, domain.ErrBadRequest.WithReason(reason))
}

func ResponseRateLimitExceeded(c *gin.Context, message string, retryAt time.Time) {
	retryAfterSeconds := int64(0)
	retryAtISO := ""
	if !retryAt.IsZero() {
		retryAfterSeconds = int64(time.Until(retryAt).Seconds())
		if retryAfterSeconds > 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds))
		}
		retryAtISO = retryAt.Format(time.RFC3339)
	}

	write(c, http.StatusTooManyRequests, ResponseT[gin.H]{
		Success: false,
		Message: message,
		Code:    http.StatusText(http.StatusTooManyRequests),
		ID:      domain.ErrTooManyRequests.ID(),
		Data: gin.H{
			"retry_at":            retryAtISO,
			"retry_after_seconds": retryAfterSeconds,
		},
	})
}
