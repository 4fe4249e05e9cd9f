package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	sqlHandler *database.SQLHandler[domain.Role, domain.RoleFilter]
}

func NewRoleRepository(db *gorm.DB, queryTimeout time.Duration) *RoleRepository {
	return &RoleRepository{
		sqlHandler: database.NewSQLHandler[domain.Role](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.RoleFilter) *gorm.DB {
	if filter == nil {
		return qb
	}
	if filter.ID != nil {
		qb = qb.Where("role_id = ?", *filter.ID)
	}
	if filter.Name != nil {
		qb = qb.Where("role_name = ?", *filter.Name)
	}
	return qb
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	return r.sqlHandler.FindMany(ctx, nil, &domain.FindManyOption{Sort: []string{"role_id ASC"}})
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.sqlHandler.Create(ctx, role)
}

// EnsureAll inserts the roles that are missing and leaves existing rows untouched.
func (r *RoleRepository) EnsureAll(ctx context.Context, roles []domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	return r.sqlHandler.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
	})
}
