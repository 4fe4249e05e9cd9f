package domain

import (
	"context"
	"net/http"
)

var (
	ErrAdNotFound = &DetailedError{
		IDField:         "AD_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Advertisement not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrInvalidAdSchedule = &DetailedError{
		IDField:         "INVALID_AD_SCHEDULE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "ends_at must be after starts_at",
		StatusCodeField: http.StatusBadRequest,
	}
)

type Advertising struct {
	SQLModel
	Name     string `json:"name" gorm:"type:varchar(150);not null"`
	Company  string `json:"company" gorm:"type:varchar(150)"`
	ImageURL string `json:"image_url" gorm:"type:varchar(500)"`
	LinkURL  string `json:"link_url" gorm:"type:varchar(500)"`
	StartsAt int64  `json:"starts_at" gorm:"index"`
	EndsAt   int64  `json:"ends_at" gorm:"index"`
	IsActive bool   `json:"is_active" gorm:"not null;index"`
}

func (Advertising) TableName() string {
	return "advertisements"
}

// IsRunning reports whether the ad should be displayed at nowMillis.
func (a *Advertising) IsRunning(nowMillis int64) bool {
	if !a.IsActive {
		return false
	}
	if a.StartsAt > 0 && nowMillis < a.StartsAt {
		return false
	}
	return a.EndsAt == 0 || nowMillis < a.EndsAt
}

type AdvertisingFilter struct {
	ID          *string `json:"id" form:"id"`
	IsActive    *bool   `json:"is_active" form:"is_active"`
	RunningAt   *int64  `json:"-" form:"-"`
	EndedBefore *int64  `json:"-" form:"-"`
}

type AdvertisingUsecase interface {
	Create(ctx context.Context, actor *Principal, req *CreateAdRequest) (*Advertising, error)
	Update(ctx context.Context, actor *Principal, id string, req *UpdateAdRequest) (*Advertising, error)
	ChangeStatus(ctx context.Context, actor *Principal, id string, active bool) (*Advertising, error)
	Delete(ctx context.Context, actor *Principal, id string) error
	ListRunning(ctx context.Context) ([]*Advertising, error)
	FindPage(ctx context.Context, filter *AdvertisingFilter, option *FindPageOption) ([]*Advertising, *Pagination, error)
	ExpireEnded(ctx context.Context) (int, error)
}

type CreateAdRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Company  string `json:"company" binding:"max=150"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=500"`
	LinkURL  string `json:"link_url" binding:"omitempty,url,max=500"`
	StartsAt int64  `json:"starts_at" binding:"min=0"`
	EndsAt   int64  `json:"ends_at" binding:"min=0"`
	IsActive *bool  `json:"is_active"`
}

type UpdateAdRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=150"`
	Company  *string `json:"company" binding:"omitempty,max=150"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=500"`
	LinkURL  *string `json:"link_url" binding:"omitempty,url,max=500"`
	StartsAt *int64  `json:"starts_at" binding:"omitempty,min=0"`
	EndsAt   *int64  `json:"ends_at" binding:"omitempty,min=0"`
}

type AdStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
