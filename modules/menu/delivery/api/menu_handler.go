package api

import (
	"net/http"
	"strconv"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	usecase     domain.MenuUsecase
	middlewares middleware.Middlewares
}

func NewMenuHandler(usecase domain.MenuUsecase, middlewares middleware.Middlewares) *MenuHandler {
	return &MenuHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *MenuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	menus := rg.Group("/menus")
	menus.Use(h.middlewares.APIRateLimits())

	menus.GET("/main", h.middlewares.OptionalAuthenticator(), h.GetMainMenu)

	authed := menus.Group("")
	authed.Use(h.middlewares.Authenticator())
	authed.GET("/user-dashboard", h.GetUserDashboardMenu)
	authed.GET("/admin-dashboard", h.GetAdminDashboardMenu)
	authed.GET("/type/:menuType", h.GetMenuByType)
	authed.POST("/access", h.CheckAccess)

	admin := authed.Group("")
	admin.Use(h.middlewares.RequireMinRank(domain.MinRankAdmin))
	admin.GET("/role/:roleId/type/:menuType", h.GetMenuByRoleAndType)
	admin.GET("/items", h.ListItems)
	admin.GET("/items/:id", h.GetItem)
	admin.POST("/items", h.CreateItem)
	admin.PUT("/items/:id", h.UpdateItem)
	admin.PATCH("/items/:id/status", h.SetItemStatus)
	admin.DELETE("/items/:id", h.DeleteItem)
}

// callerRole falls back to the lowest rank for anonymous callers.
func callerRole(c *gin.Context) domain.RoleID {
	if p := common.GetPrincipalFromCtx(c); p != nil {
		return p.Role
	}
	return domain.RoleIDView
}

func (h *MenuHandler) resolve(c *gin.Context, role domain.RoleID, menuType domain.MenuType) {
	nodes, err := h.usecase.Resolve(c.Request.Context(), role, menuType)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponseOK(c, nodes, "Menu retrieved successfully")
}

func (h *MenuHandler) GetMainMenu(c *gin.Context) {
	h.resolve(c, callerRole(c), domain.MenuTypeMain)
}

func (h *MenuHandler) GetUserDashboardMenu(c *gin.Context) {
	h.resolve(c, callerRole(c), domain.MenuTypeUserDashboard)
}

func (h *MenuHandler) GetAdminDashboardMenu(c *gin.Context) {
	h.resolve(c, callerRole(c), domain.MenuTypeAdminDashboard)
}

func (h *MenuHandler) GetMenuByType(c *gin.Context) {
	menuType := domain.MenuType(c.Param("menuType"))
	if !menuType.IsValid() {
		common.ResponseError(c, domain.ErrInvalidMenuType.WithReasonf("got %q", menuType))
		return
	}
	h.resolve(c, callerRole(c), menuType)
}

// GetMenuByRoleAndType passes the type through unvalidated; unknown types are
// scoped to the requested role and usually resolve to an empty list.
func (h *MenuHandler) GetMenuByRoleAndType(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("roleId"))
	if err != nil || roleID <= 0 {
		common.ResponseBadRequest(c, "roleId must be a positive integer")
		return
	}
	h.resolve(c, domain.RoleID(roleID), domain.MenuType(c.Param("menuType")))
}

func (h *MenuHandler) CheckAccess(c *gin.Context) {
	var req domain.AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	ok, err := h.usecase.HasAccess(c.Request.Context(), callerRole(c), req.Path)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.AccessCheckResponse{Success: true, HasAccess: ok})
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	var filter domain.MenuFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	items, pagination, err := h.usecase.ListMenuItems(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, items, pagination, "Menu items retrieved successfully")
}

func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	item, err := h.usecase.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, item, "Menu item found")
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req domain.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	item, err := h.usecase.CreateMenuItemWithCheck(c.Request.Context(), common.GetPrincipalFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, item, "Menu item created successfully")
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	item, err := h.usecase.UpdateMenuItem(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, item, "Menu item updated successfully")
}

func (h *MenuHandler) SetItemStatus(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.MenuItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	item, err := h.usecase.SetMenuItemStatus(c.Request.Context(), common.GetPrincipalFromCtx(c), id, *req.IsActive)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, item, "Menu item status updated successfully")
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.DeleteMenuItem(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "Menu item deleted successfully")
}
