package main

import (
	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/database"
	"github.com/confreview/backend/internal/logger"
)

func main() {
	cfg, _ := config.Load()
	logger.Initialize(cfg.Log)

	if cfg.Database.Driver == "memory" {
		logger.Fatal("Nothing to migrate for the in-memory store", nil)
	}

	logger.Info("Running database migrations...", nil)
	_, closeStore, err := database.Open(cfg.Database, true)
	if err != nil {
		logger.Fatal("Migration failed", map[string]interface{}{"error": err.Error()})
	}
	defer closeStore()

	logger.Info("Database migrations completed successfully", nil)
}
