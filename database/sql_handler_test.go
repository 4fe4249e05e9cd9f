package database

import (
	"context"
	"fmt"
	"testing"

	"radio-cms/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   error
		status int // 0 for sentinel errors that carry no HTTP status
	}{
		{"nil", nil, nil, 0},
		{"not found", gorm.ErrRecordNotFound, domain.ErrRecordNotFound, 0},
		{"duplicated key", gorm.ErrDuplicatedKey, domain.ErrDuplicateRecord, 0},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrStorageTimeout, 408},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrBadRequest, 400},
		{"unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicateRecord, 0},
		{"other driver error", &pgconn.PgError{Code: "XX000"}, domain.ErrStorage, 500},
		{"opaque", assert.AnError, domain.ErrStorage, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
			if tt.status == 0 {
				return
			}
			de, ok := domain.AsDetailedError(got)
			if assert.True(t, ok) {
				assert.Equal(t, tt.status, de.StatusCode())
			}
		})
	}
}
