package domain

import (
	"context"
	"net/http"
)

var (
	ErrContactNotFound = &DetailedError{
		IDField:         "CONTACT_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Contact message not found",
		StatusCodeField: http.StatusNotFound,
	}
)

type ContactStatus string

const (
	ContactSTTNew  ContactStatus = "new"
	ContactSTTRead ContactStatus = "read"
)

type Contact struct {
	SQLModel
	Name    string        `json:"name" gorm:"type:varchar(100);not null"`
	Email   string        `json:"email" gorm:"type:varchar(100);not null"`
	Phone   string        `json:"phone" gorm:"type:varchar(20)"`
	Subject string        `json:"subject" gorm:"type:varchar(200)"`
	Message string        `json:"message" gorm:"type:text;not null"`
	Status  ContactStatus `json:"status" gorm:"type:varchar(20);index;not null"`
}

func (Contact) TableName() string {
	return "contacts"
}

type ContactFilter struct {
	ID     *string        `json:"id" form:"id"`
	Status *ContactStatus `json:"status" form:"status"`
}

type ContactUsecase interface {
	Submit(ctx context.Context, req *SubmitContactRequest) (*Contact, error)
	MarkRead(ctx context.Context, actor *Principal, id string) (*Contact, error)
	Delete(ctx context.Context, actor *Principal, id string) error
	FindPage(ctx context.Context, filter *ContactFilter, option *FindPageOption) ([]*Contact, *Pagination, error)
}

type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=100"`
	Phone   string `json:"phone" binding:"omitempty,phone"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}
