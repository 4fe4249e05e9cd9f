package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type PodcastRepository struct {
	sqlHandler *database.SQLHandler[domain.Podcast, domain.PodcastFilter]
}

func NewPodcastRepository(db *gorm.DB, queryTimeout time.Duration) *PodcastRepository {
	return &PodcastRepository{
		sqlHandler: database.NewSQLHandler[domain.Podcast](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.PodcastFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.IsActive != nil {
		qb = qb.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != nil {
		qb = database.ApplySearch(qb, *filter.Search, "title", "description")
	}
	return qb
}

func (r *PodcastRepository) Create(ctx context.Context, podcast *domain.Podcast) error {
	return r.sqlHandler.Create(ctx, podcast)
}

func (r *PodcastRepository) FindByID(ctx context.Context, id string) (*domain.Podcast, error) {
	return r.sqlHandler.FindOne(ctx, &domain.PodcastFilter{ID: &id}, nil)
}

func (r *PodcastRepository) FindPage(ctx context.Context, filter *domain.PodcastFilter, option *domain.FindPageOption) ([]*domain.Podcast, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"created_at DESC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *PodcastRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

func (r *PodcastRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}
