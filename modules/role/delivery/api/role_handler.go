package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	usecase     domain.RoleUsecase
	middlewares middleware.Middlewares
}

func NewRoleHandler(usecase domain.RoleUsecase, middlewares middleware.Middlewares) *RoleHandler {
	return &RoleHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	roles.Use(h.middlewares.Authenticator())
	roles.Use(h.middlewares.APIRateLimits())

	roles.GET("", h.List)
	roles.POST("", h.middlewares.RequireMinRank(domain.MinRankAdmin), h.Create)
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.usecase.List(c.Request.Context())
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponseOK(c, roles, "Roles retrieved successfully")
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req domain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	role, err := h.usecase.Create(c.Request.Context(), common.GetPrincipalFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, role, "Role created successfully")
}
