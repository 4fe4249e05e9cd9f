package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	usecase     domain.NewsUsecase
	middlewares middleware.Middlewares
}

func NewNewsHandler(usecase domain.NewsUsecase, middlewares middleware.Middlewares) *NewsHandler {
	return &NewsHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	news := rg.Group("/news")
	news.Use(h.middlewares.APIRateLimits())

	news.GET("", h.middlewares.OptionalAuthenticator(), h.List)
	news.GET("/:id", h.middlewares.OptionalAuthenticator(), h.Get)

	editor := news.Group("")
	editor.Use(h.middlewares.Authenticator(), h.middlewares.RequireMinRank(domain.MinRankNewsCreate))
	editor.POST("", h.Create)
	editor.PUT("/:id", h.Update)
	editor.PATCH("/:id/status", h.ChangeStatus)
	editor.DELETE("/:id", h.middlewares.RequireMinRank(domain.MinRankNewsDelete), h.Delete)
}

// canSeeDrafts reports whether the caller may read unpublished articles.
func canSeeDrafts(c *gin.Context) bool {
	return common.GetPrincipalFromCtx(c).HasRank(domain.MinRankNewsCreate)
}

func (h *NewsHandler) List(c *gin.Context) {
	var filter domain.NewsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if !canSeeDrafts(c) {
		published := domain.NewsSTTPublished
		filter.Status = &published
		filter.AuthorID = nil
	}

	items, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, items, pagination, "News retrieved successfully")
}

func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	news, err := h.usecase.FindByID(c.Request.Context(), id, !canSeeDrafts(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, news, "News found")
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req domain.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	news, err := h.usecase.Create(c.Request.Context(), common.GetPrincipalFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, news, "News created successfully")
}

func (h *NewsHandler) Update(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	news, err := h.usecase.Update(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, news, "News updated successfully")
}

func (h *NewsHandler) ChangeStatus(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.NewsStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	news, err := h.usecase.ChangeStatus(c.Request.Context(), common.GetPrincipalFromCtx(c), id, req.Status)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, news, "News status updated successfully")
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "News deleted successfully")
}
