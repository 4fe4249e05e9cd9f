package middleware

import (
	"strings"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// websocketTokenParam carries the token on upgrades, where browsers cannot set headers.
const websocketTokenParam = "access_token"

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if c.IsWebsocket() {
		return strings.TrimSpace(c.Query(websocketTokenParam))
	}
	return ""
}

// Authenticator rejects requests without a valid bearer token.
func (m *middlewares) Authenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			common.ResponseError(c, domain.ErrMissingToken)
			return
		}

		principal, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			common.ResponseError(c, err)
			return
		}

		m.attach(c, principal)
		c.Next()
	}
}

// OptionalAuthenticator attaches the caller when a valid token is present and
// lets anonymous requests through. An invalid token is still rejected.
func (m *middlewares) OptionalAuthenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			common.ResponseError(c, err)
			return
		}

		m.attach(c, principal)
		c.Next()
	}
}

// RequireMinRank must run after Authenticator.
func (m *middlewares) RequireMinRank(min domain.RoleID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := common.GetPrincipalFromCtx(c).RequireRank(min); err != nil {
			common.ResponseError(c, err)
			return
		}
		c.Next()
	}
}

func (m *middlewares) attach(c *gin.Context, principal *domain.Principal) {
	common.SetPrincipal(c, principal)
	c.Request = c.Request.WithContext(log.ContextWithUserID(c.Request.Context(), principal.UserID))
}
