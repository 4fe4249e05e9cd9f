package domain

import (
	"context"
	"net/http"
)

var (
	ErrPodcastNotFound = &DetailedError{
		IDField:         "PODCAST_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Podcast not found",
		StatusCodeField: http.StatusNotFound,
	}
)

type Podcast struct {
	SQLModel
	Title       string `json:"title" gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text"`
	AudioURL    string `json:"audio_url" gorm:"type:varchar(500);not null"`
	CoverURL    string `json:"cover_url" gorm:"type:varchar(500)"`
	DurationSec int    `json:"duration_sec"`
	IsActive    bool   `json:"is_active" gorm:"not null;index"`
	CreatedBy   string `json:"created_by" gorm:"type:uuid"`
}

func (Podcast) TableName() string {
	return "podcasts"
}

type PodcastFilter struct {
	ID       *string `json:"id" form:"id"`
	IsActive *bool   `json:"is_active" form:"is_active"`
	Search   *string `json:"search" form:"search"`
}

type PodcastUsecase interface {
	Create(ctx context.Context, actor *Principal, req *CreatePodcastRequest) (*Podcast, error)
	Update(ctx context.Context, actor *Principal, id string, req *UpdatePodcastRequest) (*Podcast, error)
	Delete(ctx context.Context, actor *Principal, id string) error
	FindByID(ctx context.Context, id string) (*Podcast, error)
	FindPage(ctx context.Context, filter *PodcastFilter, option *FindPageOption) ([]*Podcast, *Pagination, error)
}

type CreatePodcastRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	AudioURL    string `json:"audio_url" binding:"required,url,max=500"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500"`
	DurationSec int    `json:"duration_sec" binding:"min=0"`
	IsActive    *bool  `json:"is_active"`
}

type UpdatePodcastRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	AudioURL    *string `json:"audio_url" binding:"omitempty,url,max=500"`
	CoverURL    *string `json:"cover_url" binding:"omitempty,url,max=500"`
	DurationSec *int    `json:"duration_sec" binding:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active"`
}
