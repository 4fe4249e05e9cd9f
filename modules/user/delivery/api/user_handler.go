package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	usecase     domain.UserUsecase
	middlewares middleware.Middlewares
}

func NewUserHandler(usecase domain.UserUsecase, middlewares middleware.Middlewares) *UserHandler {
	return &UserHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/users")
	user.Use(h.middlewares.Authenticator())
	user.Use(h.middlewares.APIRateLimits())

	user.GET("/me", h.Me)

	admin := user.Group("")
	admin.Use(h.middlewares.RequireMinRank(domain.MinRankAdmin))
	admin.GET("", h.List)
	admin.PUT("/:id/role", h.ChangeRole)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.usecase.FindByID(c.Request.Context(), common.GetPrincipalFromCtx(c).ActorID())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User found")
}

func (h *UserHandler) List(c *gin.Context) {
	var filter domain.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	users, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, users, pagination, "Users retrieved successfully")
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.ChangeUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	user, err := h.usecase.ChangeRole(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User role updated successfully")
}
