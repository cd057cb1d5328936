// internal/middleware/logging.go
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AccessLog writes one log line per HTTP request. Handler errors are resolved
// through the app's error handler first so the logged status is the one sent.
func AccessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		code := c.Response().StatusCode()
		attrs := append([]any{
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"duration", time.Since(start),
		}, GetClientInfo(c.UserContext()).LogAttrs()...)

		ctx := c.UserContext()
		switch {
		case code >= fiber.StatusInternalServerError:
			logger.ErrorContext(ctx, "request completed", attrs...)
		case code >= fiber.StatusBadRequest:
			logger.WarnContext(ctx, "request completed", attrs...)
		default:
			logger.InfoContext(ctx, "request completed", attrs...)
		}
		return nil
	}
}

// UnaryLogging logs each gRPC call with its resulting code.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logRPC(ctx, logger, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamLogging logs each gRPC stream once it ends.
func StreamLogging(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, stream)
		logRPC(stream.Context(), logger, info.FullMethod, start, err)
		return err
	}
}

func logRPC(ctx context.Context, logger *slog.Logger, method string, start time.Time, err error) {
	code := status.Code(err)
	attrs := append([]any{
		"method", method,
		"code", code.String(),
		"duration", time.Since(start),
	}, GetClientInfo(ctx).LogAttrs()...)

	switch code {
	case codes.OK:
		logger.InfoContext(ctx, "rpc completed", attrs...)
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		logger.ErrorContext(ctx, "rpc completed", append(attrs, "error", err)...)
	default:
		logger.WarnContext(ctx, "rpc completed", append(attrs, "error", err)...)
	}
}
