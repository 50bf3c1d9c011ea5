// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/fragrance-catalog/internal/config"
	"github.com/javajoker/fragrance-catalog/internal/models"
)

// Handle owns the store connection pool for the lifetime of the process.
// A degraded handle was opened without a reachable store; callers must
// check Degraded before issuing queries.
type Handle struct {
	db       *gorm.DB
	timeout  time.Duration
	degraded atomic.Bool
}

// NewHandle wraps an already opened gorm connection.
func NewHandle(db *gorm.DB, timeout time.Duration) *Handle {
	return &Handle{db: db, timeout: timeout}
}

func (h *Handle) DB() *gorm.DB {
	return h.db
}

func (h *Handle) Degraded() bool {
	return h.degraded.Load()
}

// Timeout is the deadline applied to each request's store calls.
func (h *Handle) Timeout() time.Duration {
	return h.timeout
}

func Open(cfg config.DatabaseConfig) (*Handle, error) {
	gormConfig := &gorm.Config{
		Logger:               logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError:       true,
		DisableAutomaticPing: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqliteDialector(cfg.Path)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	handle := NewHandle(db, cfg.Timeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		if !cfg.AllowDegraded {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logrus.WithError(err).Warn("Database unreachable, starting in degraded mode")
		handle.degraded.Store(true)
		return handle, nil
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established successfully")
	return handle, nil
}

func (h *Handle) Close() {
	sqlDB, err := h.db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

// WithTimeout returns a session bound to ctx with the handle's deadline.
func (h *Handle) WithTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	return h.db.WithContext(ctx), cancel
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.House{},
		&models.Fragrance{},
		&models.Note{},
		&models.FragranceNote{},
		&models.Perfumer{},
		&models.FragrancePerfumer{},
		&models.Detail{},
		&models.Retailer{},
		&models.Price{},
		&models.User{},
		&models.Review{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_fragrance_perfumers_perfumer ON fragrance_perfumers(perfumer_id)",
		"CREATE INDEX IF NOT EXISTS idx_prices_amount ON prices(amount)",
		"CREATE INDEX IF NOT EXISTS idx_fragrances_name_lower ON fragrances(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_houses_name_lower ON houses(LOWER(name))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// WithTransaction runs fn inside a transaction. Any error or panic from fn
// rolls back every statement issued through tx.
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logrus.WithError(rbErr).Error("Failed to roll back transaction")
		}
		return err
	}

	return tx.Commit().Error
}
