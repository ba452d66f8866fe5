package database

import (
	"fmt"

	"belezure-api/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&entity.Identity{},
		&entity.Address{},
		&entity.User{},
		&entity.ProviderProfile{},
		&entity.Category{},
		&entity.Service{},
		&entity.Review{},
		&entity.AvailabilityLedger{},
		&entity.Booking{},
		&entity.AuditLog{},
	}
}

// NewSQLiteConnection opens an auto-migrated SQLite database. It backs local
// runs and tests; a single connection keeps concurrent transactions serialized.
func NewSQLiteConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return db, nil
}
