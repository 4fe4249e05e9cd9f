package repository

import (
	"context"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"gorm.io/gorm"
)

type MenuRepository struct {
	sqlHandler *database.SQLHandler[domain.MenuItem, domain.MenuFilter]
}

func NewMenuRepository(db *gorm.DB, queryTimeout time.Duration) *MenuRepository {
	return &MenuRepository{
		sqlHandler: database.NewSQLHandler[domain.MenuItem](db, applyFilter, database.WithQueryTimeout(queryTimeout)),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.MenuFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.IDNe != nil {
		qb = qb.Where("id <> ?", *filter.IDNe)
	}
	if filter.Title != nil {
		qb = qb.Where("title = ?", *filter.Title)
	}
	if filter.Path != nil {
		qb = qb.Where("path = ?", *filter.Path)
	}
	if filter.ParentID != nil {
		if *filter.ParentID == "" {
			qb = qb.Where("parent_id IS NULL")
		} else {
			qb = qb.Where("parent_id = ?", *filter.ParentID)
		}
	}
	if filter.RoleID != nil {
		qb = qb.Where("role_id = ?", *filter.RoleID)
	}
	if filter.MenuType != nil {
		qb = qb.Where("menu_type = ?", *filter.MenuType)
	}
	if filter.IsActive != nil {
		qb = qb.Where("is_active = ?", *filter.IsActive)
	}

	return qb
}

var sortBySiblingOrder = []string{"order_index ASC", "title ASC"}

// FindActive loads every active item of the filter in one query, ordered by
// order_index then title.
func (r *MenuRepository) FindActive(ctx context.Context, menuType domain.MenuType, role *domain.RoleID) ([]*domain.MenuItem, error) {
	active := true
	return r.sqlHandler.FindMany(ctx, &domain.MenuFilter{
		RoleID:   role,
		MenuType: &menuType,
		IsActive: &active,
	}, &domain.FindManyOption{Sort: sortBySiblingOrder})
}

// FindByType loads active and inactive items of a type, used for cycle checks.
func (r *MenuRepository) FindByType(ctx context.Context, menuType domain.MenuType) ([]*domain.MenuItem, error) {
	return r.sqlHandler.FindMany(ctx, &domain.MenuFilter{MenuType: &menuType}, nil)
}

func (r *MenuRepository) ExistsActive(ctx context.Context, filter *domain.MenuFilter) (bool, error) {
	active := true
	f := *filter
	f.IsActive = &active
	return r.sqlHandler.Exists(ctx, &f)
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	return r.sqlHandler.Create(ctx, item)
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	return r.sqlHandler.FindByID(ctx, id)
}

func (r *MenuRepository) FindPage(ctx context.Context, filter *domain.MenuFilter, option *domain.FindPageOption) ([]*domain.MenuItem, *domain.Pagination, error) {
	option = option.Normalize()
	if len(option.Sort) == 0 {
		option.Sort = append([]string{"menu_type ASC"}, sortBySiblingOrder...)
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *MenuRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, id, fields)
}

// DeleteMany hard deletes the given ids in one statement and returns the number of removed rows.
func (r *MenuRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.sqlHandler.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id IN ?", ids).Delete(&domain.MenuItem{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
