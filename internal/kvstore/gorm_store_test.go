package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVItem{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewGormStore(db)
}

func TestGormStore_GetMissing(t *testing.T) {
	store := setupGormStore(t)

	_, err := store.Get(context.Background(), "userDataBase")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_SetBumpsRevision(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	value, rev, err := store.GetVersioned(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", value)
	assert.Equal(t, int64(2), rev)
}

func TestGormStore_CompareAndSwap(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	rev, err := store.CompareAndSwap(ctx, "k", "first", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	_, err = store.CompareAndSwap(ctx, "k", "again", 0)
	assert.ErrorIs(t, err, ErrConflict, "insert must fail once the key exists")

	rev, err = store.CompareAndSwap(ctx, "k", "second", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	_, err = store.CompareAndSwap(ctx, "k", "stale", 1)
	assert.ErrorIs(t, err, ErrConflict)

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func setupMockGormStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormStore_QueryErrorIsNotNotFound(t *testing.T) {
	store, mock := setupMockGormStore(t)

	mock.ExpectQuery(`SELECT .* FROM "kv_items"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := store.Get(context.Background(), "userDataBase")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_StaleRevisionConflicts(t *testing.T) {
	store, mock := setupMockGormStore(t)

	mock.ExpectExec(`UPDATE "kv_items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.CompareAndSwap(context.Background(), "userDataBase", "[]", 7)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateErrorIsReported(t *testing.T) {
	store, mock := setupMockGormStore(t)

	mock.ExpectExec(`UPDATE "kv_items" SET`).
		WillReturnError(errors.New("disk full"))

	_, err := store.CompareAndSwap(context.Background(), "userDataBase", "[]", 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
