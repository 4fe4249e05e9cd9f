package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	sqlHandler *database.SQLHandler[domain.User, domain.UserFilter]
}

func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) *UserRepository {
	return &UserRepository{
		sqlHandler: database.NewSQLHandler[domain.User](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.UserFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", *filter.Email)
	}
	if filter.RoleID != nil {
		qb = qb.Where("role_id = ?", *filter.RoleID)
	}
	if filter.Active != nil {
		qb = qb.Where("active = ?", *filter.Active)
	}
	return qb
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.sqlHandler.Create(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserFilter{ID: &id}, nil)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserFilter{Email: &email}, nil)
}

func (r *UserRepository) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = []string{"created_at DESC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}
