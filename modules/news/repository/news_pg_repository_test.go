package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"radio-cms/database"
	"radio-cms/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*NewsRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig(logger.Discard))
	require.NoError(t, err)
	return NewNewsRepository(db, time.Second), mock
}

func TestFindByID_SkipsDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "news" WHERE deleted_at = 0 AND id = $1`)).
		WithArgs("n1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "n1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPage_PublishedSearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	status, search := domain.NewsSTTPublished, "jazz"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "news" WHERE deleted_at = 0 AND status = $1 AND (title ILIKE $2 OR summary ILIKE $3)`)).
		WithArgs("published", "%jazz%", "%jazz%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "news" WHERE deleted_at = 0 AND status = $1 AND (title ILIKE $2 OR summary ILIKE $3) ORDER BY published_at DESC,created_at DESC LIMIT $4`)).
		WithArgs("published", "%jazz%", "%jazz%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).AddRow("n1", "Jazz night", "published"))

	items, pagination, err := repo.FindPage(context.Background(), &domain.NewsFilter{Status: &status, Search: &search}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jazz night", items[0].Title)
	assert.Equal(t, int64(1), pagination.TotalItems)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "news" SET .*"deleted_at"=.* WHERE id = \$\d+ AND deleted_at = 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
