package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type AdvertisingRepository struct {
	sqlHandler *database.SQLHandler[domain.Advertising, domain.AdvertisingFilter]
}

func NewAdvertisingRepository(db *gorm.DB, queryTimeout time.Duration) *AdvertisingRepository {
	return &AdvertisingRepository{
		sqlHandler: database.NewSQLHandler[domain.Advertising](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

// A zero starts_at or ends_at leaves that side of the schedule open.
func applyFilter(qb *gorm.DB, filter *domain.AdvertisingFilter) *gorm.DB {
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
	if filter.RunningAt != nil {
		qb = qb.Where("(starts_at = 0 OR starts_at <= ?) AND (ends_at = 0 OR ends_at > ?)", *filter.RunningAt, *filter.RunningAt)
	}
	if filter.EndedBefore != nil {
		qb = qb.Where("ends_at > 0 AND ends_at <= ?", *filter.EndedBefore)
	}
	return qb
}

func (r *AdvertisingRepository) Create(ctx context.Context, ad *domain.Advertising) error {
	return r.sqlHandler.Create(ctx, ad)
}

func (r *AdvertisingRepository) FindByID(ctx context.Context, id string) (*domain.Advertising, error) {
	return r.sqlHandler.FindOne(ctx, &domain.AdvertisingFilter{ID: &id}, nil)
}

func (r *AdvertisingRepository) FindMany(ctx context.Context, filter *domain.AdvertisingFilter) ([]*domain.Advertising, error) {
	return r.sqlHandler.FindMany(ctx, filter, &domain.FindManyOption{Sort: []string{"starts_at ASC", "created_at ASC"}})
}

func (r *AdvertisingRepository) FindPage(ctx context.Context, filter *domain.AdvertisingFilter, option *domain.FindPageOption) ([]*domain.Advertising, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"created_at DESC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *AdvertisingRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

func (r *AdvertisingRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}
