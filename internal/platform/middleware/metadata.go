package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type contextKeyClientIP struct{}
type contextKeyClientAgent struct{}

// ClientMetadata extracts the client IP and a condensed User-Agent and adds
// them to the context so captures can stamp their ledger entries. Apply early
// in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIPFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyClientAgent{}, condenseUserAgent(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetClientAgent retrieves the condensed client agent from the context.
func GetClientAgent(ctx context.Context) string {
	if agent, ok := ctx.Value(contextKeyClientAgent{}).(string); ok {
		return agent
	}
	return ""
}

// WithClientMetadata injects client metadata into a context. For service
// tests that skip the HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, clientAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	ctx = context.WithValue(ctx, contextKeyClientAgent{}, clientAgent)
	return ctx
}

// condenseUserAgent reduces a raw User-Agent header to "browser/version (os)"
// so ledger rows stay short. Bots and unknown agents pass through as-is.
func condenseUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		return "bot: " + raw
	}
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	condensed := name
	if version != "" {
		condensed += "/" + version
	}
	if os := ua.OS(); os != "" {
		condensed += " (" + os + ")"
	}
	return condensed
}

// clientIPFromRequest resolves the originating IP, honoring proxy headers.
func clientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return "unknown"
}
