package testutil

import (
	"context"
	"net/http"

	"revloop/internal/platform/middleware"
)

// WithRequestID adds a request ID to the request context, simulating the
// request-ID middleware for handler tests that bypass the full chain.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, requestID)
	return req.WithContext(ctx)
}

// WithClientMetadata adds client IP and agent to the request context,
// simulating the client-metadata middleware.
func WithClientMetadata(req *http.Request, clientIP, clientAgent string) *http.Request {
	ctx := middleware.WithClientMetadata(req.Context(), clientIP, clientAgent)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
