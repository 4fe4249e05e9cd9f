package api

import (
	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/middleware"

	"github.com/gin-gonic/gin"
)

type PodcastHandler struct {
	usecase     domain.PodcastUsecase
	middlewares middleware.Middlewares
}

func NewPodcastHandler(usecase domain.PodcastUsecase, middlewares middleware.Middlewares) *PodcastHandler {
	return &PodcastHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *PodcastHandler) RegisterRoutes(rg *gin.RouterGroup) {
	podcasts := rg.Group("/podcasts")
	podcasts.Use(h.middlewares.APIRateLimits())

	podcasts.GET("", h.middlewares.OptionalAuthenticator(), h.List)
	podcasts.GET("/:id", h.middlewares.OptionalAuthenticator(), h.Get)

	editor := podcasts.Group("")
	editor.Use(h.middlewares.Authenticator(), h.middlewares.RequireMinRank(domain.MinRankNewsCreate))
	editor.POST("", h.Create)
	editor.PUT("/:id", h.Update)
	editor.DELETE("/:id", h.middlewares.RequireMinRank(domain.MinRankNewsDelete), h.Delete)
}

func canSeeInactive(c *gin.Context) bool {
	return common.GetPrincipalFromCtx(c).HasRank(domain.MinRankNewsCreate)
}

func (h *PodcastHandler) List(c *gin.Context) {
	var filter domain.PodcastFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if !canSeeInactive(c) {
		active := true
		filter.IsActive = &active
	}

	podcasts, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseReadError(c, err)
		return
	}
	common.ResponsePage(c, podcasts, pagination, "Podcasts retrieved successfully")
}

func (h *PodcastHandler) Get(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	podcast, err := h.usecase.FindByID(c.Request.Context(), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	if !podcast.IsActive && !canSeeInactive(c) {
		common.ResponseError(c, domain.ErrPodcastNotFound)
		return
	}
	common.ResponseOK(c, podcast, "Podcast found")
}

func (h *PodcastHandler) Create(c *gin.Context) {
	var req domain.CreatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	podcast, err := h.usecase.Create(c.Request.Context(), common.GetPrincipalFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, podcast, "Podcast created successfully")
}

func (h *PodcastHandler) Update(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	var req domain.UpdatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	podcast, err := h.usecase.Update(c.Request.Context(), common.GetPrincipalFromCtx(c), id, &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, podcast, "Podcast updated successfully")
}

func (h *PodcastHandler) Delete(c *gin.Context) {
	id, ok := common.BindIDParam(c)
	if !ok {
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), common.GetPrincipalFromCtx(c), id); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK[any](c, nil, "Podcast deleted successfully")
}
