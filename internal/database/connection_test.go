package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/fragrance-catalog/internal/config"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var insertHouse = regexp.QuoteMeta(`INSERT INTO houses (name) VALUES ($1)`)

func TestWithTransactionCommits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertHouse).WithArgs("Dior").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := WithTransaction(db, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO houses (name) VALUES (?)", "Dior").Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	failure := errors.New("note lookup failed")

	mock.ExpectBegin()
	mock.ExpectExec(insertHouse).WithArgs("Dior").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	err := WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO houses (name) VALUES (?)", "Dior").Error; err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTransaction(db, func(tx *gorm.DB) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionBeginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := WithTransaction(db, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestOpenSQLiteAndSeed(t *testing.T) {
	handle, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		QueryTimeout: 2,
	})
	require.NoError(t, err)
	defer handle.Close()

	assert.False(t, handle.Degraded())
	assert.Equal(t, 2*time.Second, handle.Timeout())

	require.NoError(t, RunMigrations(handle.DB()))
	require.NoError(t, SeedCatalog(handle.DB()))
	// Seeding twice must not fail or duplicate rows.
	require.NoError(t, SeedCatalog(handle.DB()))

	var notes int64
	require.NoError(t, handle.DB().Table("notes").Count(&notes).Error)
	assert.Equal(t, int64(len(seedNotes)), notes)

	var retailers int64
	require.NoError(t, handle.DB().Table("retailers").Count(&retailers).Error)
	assert.Equal(t, int64(len(seedRetailers)), retailers)
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	handle, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		QueryTimeout: 2,
	})
	require.NoError(t, err)
	defer handle.Close()

	var row struct {
		Folded string
		Empty  *string
	}
	require.NoError(t, handle.DB().Raw("SELECT LOWER(?) AS folded, LOWER(NULL) AS empty", "ÉCLAT d'Arpège").Scan(&row).Error)
	assert.Equal(t, "éclat d'arpège", row.Folded)
	assert.Nil(t, row.Empty)
}

func TestOpenUnreachableStore(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:       "postgres",
		Host:         "127.0.0.1",
		Port:         "1",
		User:         "postgres",
		Database:     "fragrances_db",
		SSLMode:      "disable",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		QueryTimeout: 1,
	}

	_, err := Open(cfg)
	assert.Error(t, err)

	cfg.AllowDegraded = true
	handle, err := Open(cfg)
	require.NoError(t, err)
	defer handle.Close()
	assert.True(t, handle.Degraded())
}
