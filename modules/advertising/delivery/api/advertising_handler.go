package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type AdvertisingHandler struct {
	usecase     domain.AdvertisingUsecase
	middlewares middleware.Middlewares
}

func NewAdvertisingHandler(usecase domain.AdvertisingUsecase, middlewares middleware.Middlewares) *AdvertisingHandler {
	return &AdvertisingHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *AdvertisingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ads := rg.Group("/ads")
	ads.Use(h.middlewares.APIRateLimits())

	ads.GET("/active", h.ListActive)

	admin := ads.Group("")
	admin.Use(h.middlewares.Authenticator(), h.middlewares.RequireMinRank(domain.MinRankAdmin))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.PATCH("/:id/status", h.ChangeStatus)
	admin.DELETE("/:id", h.Delete)
}

func (h *AdvertisingHandler) ListActive(c *gin.Context) {
	ads, err := h.usecase.ListRunning(c.Request.Context())
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponseOK(c, ads, "Active advertisements retrieved successfully")
}

func (h *AdvertisingHandler) List(c *gin.Context) {
	var filter domain.AdvertisingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	ads, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, ads, pagination, "Advertisements retrieved successfully")
}

func (h *AdvertisingHandler) Create(c *gin.Context) {
	var req domain.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	ad, err := h.usecase.Create(c.Request.Context(), common.GetPrincipalFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, ad, "Advertisement created successfully")
}

func (h *AdvertisingHandler) Update(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	ad, err := h.usecase.Update(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, ad, "Advertisement updated successfully")
}

func (h *AdvertisingHandler) ChangeStatus(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.AdStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	ad, err := h.usecase.ChangeStatus(c.Request.Context(), common.GetPrincipalFromCtx(c), id, *req.IsActive)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, ad, "Advertisement status updated successfully")
}

func (h *AdvertisingHandler) Delete(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "Advertisement deleted successfully")
}
