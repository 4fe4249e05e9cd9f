package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type CommentRepository struct {
	sqlHandler *database.SQLHandler[domain.Comment, domain.CommentFilter]
}

func NewCommentRepository(db *gorm.DB, queryTimeout time.Duration) *CommentRepository {
	return &CommentRepository{
		sqlHandler: database.NewSQLHandler[domain.Comment](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.CommentFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.NewsID != nil {
		qb = qb.Where("news_id = ?", *filter.NewsID)
	}
	if filter.UserID != nil {
		qb = qb.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	return qb
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.sqlHandler.Create(ctx, comment)
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.sqlHandler.FindOne(ctx, &domain.CommentFilter{ID: &id}, nil)
}

// FindPage lists the oldest comments first so threads read top-down.
func (r *CommentRepository) FindPage(ctx context.Context, filter *domain.CommentFilter, option *domain.FindPageOption) ([]*domain.Comment, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"created_at ASC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *CommentRepository) CountVisible(ctx context.Context, newsID string) (int64, error) {
	approved := domain.CommentSTTApproved
	return r.sqlHandler.Count(ctx, &domain.CommentFilter{NewsID: &newsID, Status: &approved})
}

func (r *CommentRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}
