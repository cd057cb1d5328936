// cmd/server/main.go
package main

import (
	"context"
	"log/slog"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/config"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/database"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/grpcserver"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/logging"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/metrics"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/repository"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/server"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/service"
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
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	if err := cfg.ValidateConfig(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Connecting to database", "driver", cfg.Database.Driver)
	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			logger.Error("Failed to run auto migration", "error", err)
			os.Exit(1)
		}
		logger.Info("Database schema up to date")
	}

	m := metrics.New()
	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, service.ValidationConfig{
		MaxTitleLength:       cfg.Validation.MaxTitleLength,
		MaxDescriptionLength: cfg.Validation.MaxDescriptionLength,
	}, logger, m)

	httpServer := server.New(server.Config{
		Port:        cfg.Server.HTTPPort,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
		Metrics:     m,
	}, taskService, taskRepo)

	grpcServer := grpcserver.New(grpcserver.Config{
		Port:             cfg.Server.GRPCPort,
		EnableReflection: cfg.Server.EnableReflection,
		Logger:           logger,
	})

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go grpcServer.WatchDatabase(watchCtx, taskRepo, cfg.Server.HealthInterval)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error("HTTP server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Error("gRPC server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Task server started",
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
		"environment", cfg.Server.Environment,
	)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"grpc-server": func(ctx context.Context) error {
				stopWatch()
				return grpcServer.Shutdown(ctx)
			},
			"http-server": func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait

	if err := db.Close(); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}
	logger.Info("Server shutdown complete", "exit_code", exitCode)
	os.Exit(exitCode)
}
