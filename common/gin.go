package common

import (
	"net"
	"strings"

	"radio-cms/domain"

	"github.com/gin-gonic/gin"
)

const (
	PrincipalContextKey = "principal"
	RequestIDContextKey = "request_id"
	RequestIDHeader     = "X-Request-ID"
)

// GetClientIP prefers proxy headers over the socket address.
func GetClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}
	if xri := c.GetHeader("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}
	remoteIP, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return remoteIP
}

// GetPrincipalFromCtx returns nil for anonymous requests.
func GetPrincipalFromCtx(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(PrincipalContextKey); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}

type idParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// BindIDParam writes a 400 and reports false when the :id segment is not a UUID.
func BindIDParam(c *gin.Context) (string, bool) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		ResponseBindError(c, err)
		return "", false
	}
	return p.ID, true
}

func SetPrincipal(c *gin.Context, p *domain.Principal) {
	c.Set(PrincipalContextKey, p)
}

func RequestIDFromCtx(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}
