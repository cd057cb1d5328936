// Package server exposes the task API, health, metrics and the UI over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/metrics"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/middleware"
	"github.com/verlic4/To-Do-List---your-reminder-todo/web"
)

// TaskRoutePrefixes lists the mount points of the task API. The UI calls /api/tasks.
var TaskRoutePrefixes = []string{"/tasks", "/api/tasks"}

type Config struct {
	Port        string
	CORSOrigins string
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger
}

func New(cfg Config, tasks TaskService, db Pinger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		addr:   ":" + cfg.Port,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "tasks",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(middleware.RequestContext())
	s.app.Use(middleware.AccessLog(logger))
	s.app.Use(middleware.Metrics(m))
	s.app.Use(recover.New())
	if cfg.CORSOrigins != "" {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Content-Type," + middleware.HeaderRequestID,
		}))
	}

	s.app.Get("/health", healthHandler(db))
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	handlers := NewTaskHandlers(tasks)
	for _, prefix := range TaskRoutePrefixes {
		api := s.app.Group(prefix)
		api.Get("/", handlers.List)
		api.Post("/", handlers.Create)
		api.Get("/:id", handlers.Get)
		api.Put("/:id", handlers.Update)
		api.Delete("/:id", handlers.Delete)
	}

	// UI last so the API routes win.
	s.app.Use("/", filesystem.New(filesystem.Config{
		Root:  http.FS(web.Assets()),
		Index: "index.html",
	}))

	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)
	if err := s.app.Listen(s.addr); err != nil {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
