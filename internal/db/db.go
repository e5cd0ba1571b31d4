package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	logMode := logger.Warn
	if cfg.Database.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the four content tables, each with its own unique slug
// index, and the remaining models.
func Migrate(db *gorm.DB) error {
	for _, table := range models.ContentTables {
		if err := db.Table(table).AutoMigrate(&models.Content{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_slug ON %s (slug)", table, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
		stmt = fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at)", table, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
	}

	return db.AutoMigrate(
		&models.Admin{},
		&models.ContactSubmission{},
		&models.Publication{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
