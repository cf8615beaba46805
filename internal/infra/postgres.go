package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wanderai/internal/models/db_models"
	"wanderai/pkg/logger"
)

func InitPostgresql(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_URL is not set")
	}

	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := connectionPool.AutoMigrate(&db_models.Trip{}); err != nil {
		ClosePostgresql(connectionPool)
		return nil, fmt.Errorf("migrating trips: %w", err)
	}

	logger.Info("connected to postgres")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("getting database instance", "err", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("closing database connection", "err", err)
	} else {
		logger.Info("postgres connection closed")
	}
}
