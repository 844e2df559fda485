// Package repositories provides the data access layer: the Postgres
// connection, schema migration and the per-aggregate repositories.
package repositories

import (
	"fmt"
	"time"

	"pixgate/internal/config"
	"pixgate/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the Postgres connection, configures pooling and migrates
// the schema.
func InitDB(cfg config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Merchant{},
		&models.FeeConfig{},
		&models.Transaction{},
		&models.PixCharge{},
		&models.ChargeIntent{},
		&models.SplitPartner{},
		&models.PartnerProduct{},
		&models.PartnerTransaction{},
		&models.Withdrawal{},
		&models.WebhookEndpoint{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
