package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/config"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/database"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/logging"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	if err := cfg.ValidateConfig(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("Running database migrations", "driver", db.Dialect())
	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		db.Close()
		os.Exit(1)
	}

	logger.Info("Migrations completed successfully")
}
