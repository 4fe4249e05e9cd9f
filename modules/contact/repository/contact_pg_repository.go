package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type ContactRepository struct {
	sqlHandler *database.SQLHandler[domain.Contact, domain.ContactFilter]
}

func NewContactRepository(db *gorm.DB, queryTimeout time.Duration) *ContactRepository {
	return &ContactRepository{
		sqlHandler: database.NewSQLHandler[domain.Contact](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.ContactFilter) *gorm.DB {
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
	return qb
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.sqlHandler.Create(ctx, contact)
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	return r.sqlHandler.FindOne(ctx, &domain.ContactFilter{ID: &id}, nil)
}

func (r *ContactRepository) FindPage(ctx context.Context, filter *domain.ContactFilter, option *domain.FindPageOption) ([]*domain.Contact, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"created_at DESC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *ContactRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.sqlHandler.DeleteByID(ctx, id)
}
