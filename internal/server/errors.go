package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// httpStatus maps a service status code to the HTTP status sent to clients.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return fiber.StatusBadRequest
	case codes.NotFound:
		return fiber.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return fiber.StatusConflict
	case codes.Unavailable:
		return fiber.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return fiber.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders a service error as {error} with the mapped status.
func writeError(c *fiber.Ctx, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal server error"})
	}
	return c.Status(httpStatus(st.Code())).JSON(ErrorResponse{Error: st.Message()})
}

// errorHandler handles errors that escape the handlers: unknown routes,
// recovered panics and fiber's own errors.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
