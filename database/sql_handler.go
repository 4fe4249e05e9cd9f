package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"radio-cms/domain"
	"radio-cms/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes surfaced to callers as client errors.
const (
	pgInvalidTextRepresentation = "22P02"
	pgUniqueViolation           = "23505"
)

// DefaultQueryTimeout bounds every storage call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

type SQLHandler[T any, V any] struct {
	db          *gorm.DB
	applyFilter func(*gorm.DB, *V) *gorm.DB
	timeout     time.Duration
}

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	timeout time.Duration
}

// WithQueryTimeout overrides DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func NewSQLHandler[T any, V any](
	db *gorm.DB,
	applyFilter func(*gorm.DB, *V) *gorm.DB,
	opts ...HandlerOption,
) *SQLHandler[T, V] {
	o := handlerOptions{timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &SQLHandler[T, V]{db: db, applyFilter: applyFilter, timeout: o.timeout}
}

type DBOption func(*gorm.DB) *gorm.DB

func WithOmit(fields ...string) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Omit(fields...)
	}
}

func WithTx(tx *gorm.DB) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		if tx != nil {
			return tx
		}
		return db
	}
}

func (h *SQLHandler[T, V]) DB() *gorm.DB {
	return h.db
}

func (h *SQLHandler[T, V]) Timeout() time.Duration {
	return h.timeout
}

func (h *SQLHandler[T, V]) prepare(ctx context.Context, opts ...DBOption) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	qb := h.db
	for _, opt := range opts {
		qb = opt(qb)
	}
	return qb.WithContext(ctx), cancel
}

func (h *SQLHandler[T, V]) Create(ctx context.Context, entity *T, opts ...DBOption) error {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()
	return h.translate(execDB, execDB.Create(entity).Error)
}

func (h *SQLHandler[T, V]) FindByID(ctx context.Context, id any, opts ...DBOption) (*T, error) {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	var entity T
	if err := execDB.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, h.translate(execDB, err)
	}
	return &entity, nil
}

func (h *SQLHandler[T, V]) FindOne(ctx context.Context, filter *V, option *domain.FindOneOption, opts ...DBOption) (*T, error) {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	execDB = h.applyFilter(execDB, filter)
	if option != nil {
		for _, sortField := range option.Sort {
			execDB = execDB.Order(sortField)
		}
		for _, field := range option.Preloads {
			execDB = execDB.Preload(field)
		}
	}

	var entity T
	if err := execDB.First(&entity).Error; err != nil {
		return nil, h.translate(execDB, err)
	}
	return &entity, nil
}

func (h *SQLHandler[T, V]) FindMany(ctx context.Context, filter *V, option *domain.FindManyOption, opts ...DBOption) ([]*T, error) {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	execDB = h.applyFilter(execDB, filter)
	if option != nil {
		for _, sortField := range option.Sort {
			execDB = execDB.Order(sortField)
		}
		if option.Limit != nil {
			execDB = execDB.Limit(*option.Limit)
		}
		if option.Offset != nil {
			execDB = execDB.Offset(*option.Offset)
		}
		for _, field := range option.Preloads {
			execDB = execDB.Preload(field)
		}
	}

	var entities []*T
	if err := execDB.Find(&entities).Error; err != nil {
		return nil, h.translate(execDB, err)
	}
	return entities, nil
}

func (h *SQLHandler[T, V]) FindPage(ctx context.Context, filter *V, option *domain.FindPageOption, opts ...DBOption) ([]*T, *domain.Pagination, error) {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	execDB = h.applyFilter(execDB, filter)

	var totalItems int64
	if err := execDB.Session(&gorm.Session{}).Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, nil, h.translate(execDB, err)
	}

	option = option.Normalize()
	for _, sortField := range option.Sort {
		execDB = execDB.Order(sortField)
	}
	for _, field := range option.Preloads {
		execDB = execDB.Preload(field)
	}
	execDB = execDB.Offset((option.Page - 1) * option.PerPage).Limit(option.PerPage)

	var entities []*T
	if err := execDB.Find(&entities).Error; err != nil {
		return nil, nil, h.translate(execDB, err)
	}
	return entities, domain.NewPagination(option.Page, option.PerPage, totalItems), nil
}

func (h *SQLHandler[T, V]) Update(ctx context.Context, entity *T, opts ...DBOption) error {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()
	return h.translate(execDB, execDB.Save(entity).Error)
}

// UpdateFields returns domain.ErrRecordNotFound when no row matched.
func (h *SQLHandler[T, V]) UpdateFields(ctx context.Context, id any, fields map[string]any, opts ...DBOption) error {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	res := execDB.Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return h.translate(execDB, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DeleteByID soft deletes through the deleted_at column.
func (h *SQLHandler[T, V]) DeleteByID(ctx context.Context, id any, opts ...DBOption) error {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	res := execDB.Model(new(T)).
		Where("id = ? AND deleted_at = 0", id).
		Updates(map[string]any{"deleted_at": utils.NowUnixMillis()})
	if res.Error != nil {
		return h.translate(execDB, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// HardDeleteByID removes the row.
func (h *SQLHandler[T, V]) HardDeleteByID(ctx context.Context, id any, opts ...DBOption) error {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	res := execDB.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return h.translate(execDB, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (h *SQLHandler[T, V]) Count(ctx context.Context, filter *V, opts ...DBOption) (int64, error) {
	execDB, cancel := h.prepare(ctx, opts...)
	defer cancel()

	var count int64
	err := h.applyFilter(execDB, filter).Model(new(T)).Count(&count).Error
	return count, h.translate(execDB, err)
}

func (h *SQLHandler[T, V]) Exists(ctx context.Context, filter *V, opts ...DBOption) (bool, error) {
	count, err := h.Count(ctx, filter, opts...)
	return count > 0, err
}

// Transaction runs fn inside a database transaction bounded by the query timeout.
func (h *SQLHandler[T, V]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	execDB, cancel := h.prepare(ctx)
	defer cancel()
	return h.translate(execDB, execDB.Transaction(fn))
}

// translate reports a timeout whenever the call's own deadline has passed,
// whatever error the driver surfaced for the cancelled query.
func (h *SQLHandler[T, V]) translate(execDB *gorm.DB, err error) error {
	if err == nil {
		return nil
	}
	if ctx := execDB.Statement.Context; ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrStorageTimeout.WithWrap(err)
	}
	return TranslateError(err)
}

// TranslateError maps ORM and context errors onto the domain taxonomy.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrDuplicateRecord):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateRecord
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrStorageTimeout.WithWrap(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return domain.ErrBadRequest.WithReason("malformed identifier").WithWrap(err)
		case pgUniqueViolation:
			return domain.ErrDuplicateRecord
		}
	}
	if _, ok := domain.AsDetailedError(err); ok {
		return err
	}
	return domain.ErrStorage.WithWrap(err)
}

// ApplySearch adds a case-insensitive partial match over columns.
func ApplySearch(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}
	conditions := make([]string, len(columns))
	args := make([]any, len(columns))
	pattern := "%" + escapeLike(term) + "%"
	for i, column := range columns {
		conditions[i] = fmt.Sprintf("%s ILIKE ?", column)
		args[i] = pattern
	}
	return db.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
