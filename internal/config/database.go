package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the Postgres pool, migrates the given models and stores the handle in DB.
func Connect(ctx context.Context, dsn string, models ...interface{}) error {
	if dsn == "" {
		return fmt.Errorf("empty DATABASE_DSN")
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if Logger.IsLevelEnabled(logrus.DebugLevel) {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(EnvInt("DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(EnvInt("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	if len(models) > 0 {
		WithContext(ctx).Infof("Running migrations for %d models", len(models))
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	DB = db
	return nil
}
