package config

import (
	"fmt"

	"github.com/aspireon/storefront/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the database connection described by cfg
func InitDB(cfg *Config) error {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	DB = db
	return nil
}

// Migrate creates or updates the schema
func Migrate() error {
	// gen_random_uuid() is built in from postgres 13; older servers need pgcrypto
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %v", err)
	}

	err := DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Promotion{},
		&models.Review{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProcessedPaymentEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
