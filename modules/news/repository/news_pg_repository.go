package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type NewsRepository struct {
	sqlHandler *database.SQLHandler[domain.News, domain.NewsFilter]
}

func NewNewsRepository(db *gorm.DB, queryTimeout time.Duration) *NewsRepository {
	return &NewsRepository{
		sqlHandler: database.NewSQLHandler[domain.News](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.NewsFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.AuthorID != nil {
		qb = qb.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Search != nil {
		qb = database.ApplySearch(qb, *filter.Search, "title", "summary")
	}
	return qb
}

func (r *NewsRepository) Create(ctx context.Context, news *domain.News) error {
	return r.sqlHandler.Create(ctx, news)
}

func (r *NewsRepository) FindByID(ctx context.Context, id string) (*domain.News, error) {
	return r.sqlHandler.FindOne(ctx, &domain.NewsFilter{ID: &id}, nil)
}

// FindPage lists newest publications first.
func (r *NewsRepository) FindPage(ctx context.Context, filter *domain.NewsFilter, option *domain.FindPageOption) ([]*domain.News, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"published_at DESC", "created_at DESC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *NewsRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}
