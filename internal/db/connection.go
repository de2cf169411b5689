package db

import (
	"fmt"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a gorm handle on Postgres through the lib/pq driver and
// waits for the server to answer.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        cfg.DSN(),
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(sqlDB.Ping); err != nil {
		return nil, err
	}

	logger.Info("Database connected successfully", map[string]interface{}{"host": cfg.Host, "name": cfg.Name})
	return db, nil
}

// ping retries with a growing delay while the database starts up.
func ping(p func() error) error {
	var err error
	for attempt := 1; attempt <= 10; attempt++ {
		if err = p(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
	return fmt.Errorf("database ping timeout: %w", err)
}

// AutoMigrate creates or updates every table, indexes included.
func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Event{},
		&models.Paper{},
		&models.Assignment{},
		&models.Review{},
		&models.Job{},
	}
	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("migration of %T failed: %w", table, err)
		}
	}
	logger.Info("All database migrations completed successfully", nil)
	return nil
}
