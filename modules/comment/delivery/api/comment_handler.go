package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	usecase     domain.CommentUsecase
	middlewares middleware.Middlewares
}

func NewCommentHandler(usecase domain.CommentUsecase, middlewares middleware.Middlewares) *CommentHandler {
	return &CommentHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	thread := rg.Group("/news/:id/comments")
	thread.Use(h.middlewares.APIRateLimits())
	thread.GET("", h.List)
	thread.POST("", h.middlewares.Authenticator(), h.Create)

	comments := rg.Group("/comments")
	comments.Use(h.middlewares.Authenticator(), h.middlewares.APIRateLimits())
	comments.DELETE("/:id", h.Delete)
	comments.PATCH("/:id/status", h.middlewares.RequireMinRank(domain.MinRankAdmin), h.ChangeStatus)
}

func (h *CommentHandler) List(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	comments, pagination, err := h.usecase.ListByNews(c.Request.Context(), id, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, comments, pagination, "Comments retrieved successfully")
}

func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	comment, err := h.usecase.Create(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, comment, "Comment created successfully")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "Comment deleted successfully")
}

func (h *CommentHandler) ChangeStatus(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.CommentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	comment, err := h.usecase.ChangeStatus(c.Request.Context(), common.GetPrincipalFromCtx(c), id, req.Status)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, comment, "Comment status updated successfully")
}
