package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	return open(postgres.Open(dsn), pool{
		maxOpen:     25,
		maxIdle:     10,
		maxLifetime: 5 * time.Minute,
		maxIdleTime: 1 * time.Minute,
	})
}

// NewSQLiteDB opens an embedded database file; ":memory:" gives a private
// in-memory database, kept alive by pinning the pool to one connection.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path), pool{maxOpen: 1, maxIdle: 1})
}

func open(dialector gorm.Dialector, p pool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxLifetime(p.maxLifetime)
	sqlDB.SetConnMaxIdleTime(p.maxIdleTime)

	if err := db.AutoMigrate(&models.Event{}, &models.Workshop{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
