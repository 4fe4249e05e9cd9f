package domain

import (
	"context"
	"net/http"
)

/****************************
*       Comment errors      *
****************************/
var (
	ErrCommentNotFound = &DetailedError{
		IDField:         "COMMENT_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Comment not found",
		StatusCodeField: http.StatusNotFound,
	}
)

/***************************************
*      Comment entities and types     *
***************************************/
type CommentStatus string

const (
	CommentSTTPending  CommentStatus = "pending"
	CommentSTTApproved CommentStatus = "approved"
	CommentSTTRejected CommentStatus = "rejected"
)

type Comment struct {
	SQLModel
	NewsID  string        `json:"news_id" gorm:"type:uuid;index;not null"`
	UserID  string        `json:"user_id" gorm:"type:uuid;index;not null"`
	Content string        `json:"content" gorm:"type:text;not null"`
	Status  CommentStatus `json:"status" gorm:"type:varchar(20);index;not null"`
}

func (Comment) TableName() string {
	return "news_comments"
}

type CommentFilter struct {
	ID     *string        `json:"id" form:"id"`
	NewsID *string        `json:"news_id" form:"news_id"`
	UserID *string        `json:"user_id" form:"user_id"`
	Status *CommentStatus `json:"status" form:"status"`
}

// CommentCount is the aggregate pushed after every comment create or delete.
type CommentCount struct {
	NewsID string `json:"news_id"`
	Count  int64  `json:"count"`
}

/**********************************************
*     Comment usecase interfaces and types     *
**********************************************/
type CommentUsecase interface {
	Create(ctx context.Context, actor *Principal, newsID string, req *CreateCommentRequest) (*Comment, error)
	Delete(ctx context.Context, actor *Principal, id string) error
	ChangeStatus(ctx context.Context, actor *Principal, id string, status CommentStatus) (*Comment, error)
	ListByNews(ctx context.Context, newsID string, option *FindPageOption) ([]*Comment, *Pagination, error)
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type CommentStatusRequest struct {
	Status CommentStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}
