package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	usecase     domain.AuthUsecase
	middlewares middleware.Middlewares
}

func NewAuthHandler(
	usecase domain.AuthUsecase,
	middlewares middleware.Middlewares,
) *AuthHandler {
	return &AuthHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.middlewares.LoginRateLimit(), h.Login)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	res, err := h.usecase.Login(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, res, "Login successful")
}
