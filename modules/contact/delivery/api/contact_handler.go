package api

import (
	"time"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	usecase     domain.ContactUsecase
	middlewares middleware.Middlewares
}

func NewContactHandler(usecase domain.ContactUsecase, middlewares middleware.Middlewares) *ContactHandler {
	return &ContactHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	contacts.POST("", h.submitRateLimit(), h.Submit)

	admin := contacts.Group("")
	admin.Use(h.middlewares.Authenticator(), h.middlewares.RequireMinRank(domain.MinRankAdmin), h.middlewares.APIRateLimits())
	admin.GET("", h.List)
	admin.PATCH("/:id/read", h.MarkRead)
	admin.DELETE("/:id", h.Delete)
}

// submitRateLimit allows a handful of public form posts per client IP.
func (h *ContactHandler) submitRateLimit() gin.HandlerFunc {
	return h.middlewares.RateLimitWithLogger(middleware.RateLimitConfig{
		WindowSize:              10 * time.Minute,
		MaxRequests:             5,
		KeyPrefix:               "contact:",
		KeyGenerator:            common.GetClientIP,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
	})
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req domain.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	contact, err := h.usecase.Submit(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, contact, "Message sent successfully")
}

func (h *ContactHandler) List(c *gin.Context) {
	var filter domain.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	contacts, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, contacts, pagination, "Contact messages retrieved successfully")
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	contact, err := h.usecase.MarkRead(c.Request.Context(), common.GetPrincipalFromCtx(c), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, contact, "Contact message marked as read")
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "Contact message deleted successfully")
}
