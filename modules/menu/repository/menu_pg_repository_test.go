package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T, timeout time.Duration) (*MenuRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig(logger.Discard))
	require.NoError(t, err)
	return NewMenuRepository(db, timeout), mock
}

var menuColumns = []string{"id", "title", "path", "parent_id", "role_id", "menu_type", "order_index", "is_active", "created_at", "updated_at"}

func TestFindActive_RoleScoped(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)
	role := domain.RoleIDAdmin

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "menu_items" WHERE role_id = $1 AND menu_type = $2 AND is_active = $3 ORDER BY order_index ASC,title ASC`)).
		WithArgs(sqlmock.AnyArg(), "admin_dashboard", true).
		WillReturnRows(sqlmock.NewRows(menuColumns).
			AddRow("a", "Dashboard", "/admin", nil, 6, "admin_dashboard", 0, true, 1, 1).
			AddRow("b", "Users", "/admin/users", "a", 6, "admin_dashboard", 1, true, 1, 1))

	items, err := repo.FindActive(context.Background(), domain.MenuTypeAdminDashboard, &role)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsRoot())
	require.NotNil(t, items[1].ParentID)
	assert.Equal(t, "a", *items[1].ParentID)
	assert.Equal(t, domain.RoleIDAdmin, items[1].RoleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActive_RoleAgnostic(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "menu_items" WHERE menu_type = $1 AND is_active = $2`)).
		WithArgs("main", true).
		WillReturnRows(sqlmock.NewRows(menuColumns))

	items, err := repo.FindActive(context.Background(), domain.MenuTypeMain, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsActive(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)
	title, path := "Home", "/"
	role, menuType := domain.RoleIDUser, domain.MenuTypeMain

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "menu_items" WHERE title = $1 AND path = $2 AND role_id = $3 AND menu_type = $4 AND is_active = $5`)).
		WithArgs(title, path, sqlmock.AnyArg(), "main", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsActive(context.Background(), &domain.MenuFilter{
		Title: &title, Path: &path, RoleID: &role, MenuType: &menuType,
	})
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "menu_items" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(menuColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestFindByID_MalformedID(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "menu_items" WHERE id = $1`)).
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

	_, err := repo.FindByID(context.Background(), "abc")
	de, ok := domain.AsDetailedError(err)
	require.True(t, ok)
	assert.Equal(t, 400, de.StatusCode())
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestFindActive_StorageErrors(t *testing.T) {
	t.Run("failure", func(t *testing.T) {
		repo, mock := newMockRepo(t, time.Second)
		mock.ExpectQuery(`SELECT \* FROM "menu_items"`).WillReturnError(assert.AnError)

		_, err := repo.FindActive(context.Background(), domain.MenuTypeMain, nil)
		de, ok := domain.AsDetailedError(err)
		require.True(t, ok)
		assert.Equal(t, 500, de.StatusCode())
	})

	t.Run("timeout", func(t *testing.T) {
		repo, mock := newMockRepo(t, 20*time.Millisecond)
		mock.ExpectQuery(`SELECT \* FROM "menu_items"`).
			WillDelayFor(time.Second).
			WillReturnRows(sqlmock.NewRows(menuColumns))

		_, err := repo.FindActive(context.Background(), domain.MenuTypeMain, nil)
		de, ok := domain.AsDetailedError(err)
		require.True(t, ok)
		assert.Equal(t, 408, de.StatusCode())
	})
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "menu_items"`).WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.MenuItem{
		Title: "Home", Path: "/", RoleID: domain.RoleIDUser, MenuType: domain.MenuTypeMain, IsActive: true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMany(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "menu_items" WHERE id IN ($1,$2)`)).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.DeleteMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())

	n, err = repo.DeleteMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
