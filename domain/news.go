package domain

import (
	"context"
	"net/http"
)

/****************************
*        News errors        *
****************************/
var (
	ErrNewsNotFound = &DetailedError{
		IDField:         "NEWS_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "News article not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrInvalidNewsStatus = &DetailedError{
		IDField:         "INVALID_NEWS_STATUS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "News status must be one of draft, published, archived",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*       News entities and types       *
***************************************/
type NewsStatus string

const (
	NewsSTTDraft     NewsStatus = "draft"
	NewsSTTPublished NewsStatus = "published"
	NewsSTTArchived  NewsStatus = "archived"
)

func (s NewsStatus) IsValid() bool {
	switch s {
	case NewsSTTDraft, NewsSTTPublished, NewsSTTArchived:
		return true
	}
	return false
}

type News struct {
	SQLModel
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Summary     string     `json:"summary" gorm:"type:varchar(500)"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	ImageURL    string     `json:"image_url" gorm:"type:varchar(500)"`
	AuthorID    string     `json:"author_id" gorm:"type:uuid;index;not null"`
	Status      NewsStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	PublishedAt int64      `json:"published_at"`
}

func (News) TableName() string {
	return "news"
}

type NewsFilter struct {
	ID       *string     `json:"id" form:"id"`
	Status   *NewsStatus `json:"status" form:"status"`
	AuthorID *string     `json:"author_id" form:"author_id"`
	Search   *string     `json:"search" form:"search"`
}

/**********************************************
*       News usecase interfaces and types      *
**********************************************/
type NewsUsecase interface {
	Create(ctx context.Context, actor *Principal, req *CreateNewsRequest) (*News, error)
	Update(ctx context.Context, actor *Principal, id string, req *UpdateNewsRequest) (*News, error)
	ChangeStatus(ctx context.Context, actor *Principal, id string, status NewsStatus) (*News, error)
	Delete(ctx context.Context, actor *Principal, id string) error
	FindByID(ctx context.Context, id string, publishedOnly bool) (*News, error)
	FindPage(ctx context.Context, filter *NewsFilter, option *FindPageOption) ([]*News, *Pagination, error)
}

type CreateNewsRequest struct {
	Title    string     `json:"title" binding:"required,max=200"`
	Summary  string     `json:"summary" binding:"max=500"`
	Content  string     `json:"content" binding:"required"`
	ImageURL string     `json:"image_url" binding:"omitempty,url,max=500"`
	Status   NewsStatus `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type UpdateNewsRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Summary  *string `json:"summary" binding:"omitempty,max=500"`
	Content  *string `json:"content" binding:"omitempty"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=500"`
}

type NewsStatusRequest struct {
	Status NewsStatus `json:"status" binding:"required,oneof=draft published archived"`
}
