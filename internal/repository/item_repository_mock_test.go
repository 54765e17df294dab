package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestItemRepository_ListDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	tasks := NewItemRepository[models.Task](db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1 AND date = $2 ORDER BY id ASC`)).
		WithArgs(1, "2024-01-01").
		WillReturnError(errors.New("connection reset"))

	_, err := tasks.List(context.Background(), 1, "2024-01-01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_DeleteScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	tasks := NewItemRepository[models.Task](db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`)).
		WithArgs(7, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := tasks.Delete(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateMissingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	notes := NewItemRepository[models.Note](db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notes" SET "done"=$1 WHERE id = $2 AND user_id = $3`)).
		WithArgs(true, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notes" WHERE id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text", "date", "created_at", "done"}))
	mock.ExpectRollback()

	_, err := notes.Update(context.Background(), 2, 7, map[string]any{"done": true})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateReturnsStoredRow(t *testing.T) {
	db, mock := newMockDB(t)
	notes := NewItemRepository[models.Note](db)
	created := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notes" SET "done"=$1 WHERE id = $2 AND user_id = $3`)).
		WithArgs(true, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notes" WHERE id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text", "date", "created_at", "done"}).
			AddRow(7, 2, "remember", "2024-01-01", created, true))
	mock.ExpectCommit()

	note, err := notes.Update(context.Background(), 2, 7, map[string]any{"done": true})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), note.ID)
	assert.Equal(t, uint64(2), note.UserID)
	assert.True(t, note.Done)
	assert.NoError(t, mock.ExpectationsWereMet())
}
