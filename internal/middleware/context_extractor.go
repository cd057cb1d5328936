// internal/middleware/context_extractor.go
package middleware

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

// ContextKeys for storing request metadata
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyIPAddress ContextKey = "ip_address"
	ContextKeyUserAgent ContextKey = "user_agent"
)

// HeaderRequestID is echoed back on every HTTP response.
const HeaderRequestID = "X-Request-ID"

// RequestContext stores the request id, client IP and user agent on the
// request's user context so the service layer can log them.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		ctx := context.WithValue(c.UserContext(), ContextKeyRequestID, requestID)
		if ip := c.IP(); ip != "" {
			ctx = context.WithValue(ctx, ContextKeyIPAddress, ip)
		}
		if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
			ctx = context.WithValue(ctx, ContextKeyUserAgent, ua)
		}
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// MetadataExtractorInterceptor extracts client metadata and adds it to context
type MetadataExtractorInterceptor struct{}

// NewMetadataExtractorInterceptor creates a new metadata extractor interceptor
func NewMetadataExtractorInterceptor() *MetadataExtractorInterceptor {
	return &MetadataExtractorInterceptor{}
}

// Unary returns a unary server interceptor for metadata extraction
func (m *MetadataExtractorInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		return handler(m.enrichContext(ctx), req)
	}
}

// Stream returns a stream server interceptor for metadata extraction.
// The health Watch RPC is a stream.
func (m *MetadataExtractorInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		wrappedStream := &enrichedServerStream{
			ServerStream: stream,
			ctx:          m.enrichContext(stream.Context()),
		}
		return handler(srv, wrappedStream)
	}
}

func (m *MetadataExtractorInterceptor) enrichContext(ctx context.Context) context.Context {
	requestID := firstMetadataValue(ctx, "x-request-id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)

	if ip := extractIPAddress(ctx); ip != "" {
		ctx = context.WithValue(ctx, ContextKeyIPAddress, ip)
	}

	if ua := firstMetadataValue(ctx, "user-agent", "grpc-user-agent", "x-user-agent"); ua != "" {
		ctx = context.WithValue(ctx, ContextKeyUserAgent, ua)
	}

	return ctx
}

// extractIPAddress extracts the client IP address from the peer info
func extractIPAddress(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}

	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}

	addr := p.Addr.String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func firstMetadataValue(ctx context.Context, keys ...string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, key := range keys {
		if values := md.Get(key); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return ""
}

// enrichedServerStream wraps grpc.ServerStream with enriched context
type enrichedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *enrichedServerStream) Context() context.Context {
	return s.ctx
}

// GetRequestIDFromContext extracts the request id from context
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// GetIPAddressFromContext extracts IP address from context
func GetIPAddressFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyIPAddress).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgentFromContext extracts user agent from context
func GetUserAgentFromContext(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// ClientInfo groups the request metadata carried on the context.
type ClientInfo struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// GetClientInfo returns all client information stored on the context
func GetClientInfo(ctx context.Context) ClientInfo {
	return ClientInfo{
		RequestID: GetRequestIDFromContext(ctx),
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
	}
}

// LogAttrs returns the client info as slog key/value pairs, skipping empty values.
func (ci ClientInfo) LogAttrs() []any {
	attrs := make([]any, 0, 6)
	if ci.RequestID != "" {
		attrs = append(attrs, "request_id", ci.RequestID)
	}
	if ci.IPAddress != "" {
		attrs = append(attrs, "ip", ci.IPAddress)
	}
	if ci.UserAgent != "" {
		attrs = append(attrs, "user_agent", ci.UserAgent)
	}
	return attrs
}
