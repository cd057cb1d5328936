// Package grpcserver runs the gRPC side of the process. It carries only the
// standard health service so orchestrators can check the task service.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/middleware"
)

// TaskServiceName is the health service name reported for the task API.
const TaskServiceName = "task.v1.TaskService"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port             string
	EnableReflection bool
	Logger           *slog.Logger
}

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	addr   string
	logger *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			middleware.UnaryLogging(logger),
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			middleware.StreamLogging(logger),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	if cfg.EnableReflection {
		reflection.Register(grpcServer)
		logger.Info("gRPC reflection enabled (disable in production)")
	}

	s := &Server{
		grpc:   grpcServer,
		health: healthServer,
		addr:   ":" + cfg.Port,
		logger: logger,
	}
	s.SetServing(true)
	return s
}

// SetServing flips the overall and task service health status together.
func (s *Server) SetServing(serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(TaskServiceName, st)
}

// Start listens on the configured port and serves until Shutdown.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// WatchDatabase polls db until ctx is done and reports NOT_SERVING while it
// is unreachable.
func (s *Server) WatchDatabase(ctx context.Context, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			err := db.Ping(pingCtx)
			cancel()

			if ctx.Err() != nil {
				return
			}
			if (err == nil) != healthy {
				healthy = err == nil
				if healthy {
					s.logger.Info("database reachable again")
				} else {
					s.logger.Warn("database unreachable", "error", err)
				}
				s.SetServing(healthy)
			}
		}
	}
}

// Shutdown marks the server NOT_SERVING and drains in-flight RPCs. If ctx
// expires first the remaining connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		return fmt.Errorf("gRPC graceful stop interrupted: %w", ctx.Err())
	}
}
