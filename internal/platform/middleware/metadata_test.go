package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runMetadata(t *testing.T, mutate func(*http.Request)) (ip, agent string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/loop/status", nil)
	mutate(req)

	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = GetClientIP(r.Context())
		agent = GetClientAgent(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return ip, agent
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	ip, _ := runMetadata(t, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.Header.Set("X-Real-IP", "10.0.0.2")
		r.RemoteAddr = "10.0.0.3:4567"
	})
	assert.Equal(t, "203.0.113.7", ip)
}

func TestClientIPFallsBackToRealIPThenRemoteAddr(t *testing.T) {
	ip, _ := runMetadata(t, func(r *http.Request) {
		r.Header.Set("X-Real-IP", "198.51.100.4")
	})
	assert.Equal(t, "198.51.100.4", ip)

	ip, _ = runMetadata(t, func(r *http.Request) {
		r.RemoteAddr = "192.0.2.9:51234"
	})
	assert.Equal(t, "192.0.2.9", ip)
}

func TestUserAgentIsCondensed(t *testing.T) {
	_, agent := runMetadata(t, func(r *http.Request) {
		r.Header.Set("User-Agent",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	})
	assert.Contains(t, agent, "Chrome/126")
	assert.Contains(t, agent, "Linux")
}

func TestBotUserAgentIsLabeled(t *testing.T) {
	_, agent := runMetadata(t, func(r *http.Request) {
		r.Header.Set("User-Agent", "Googlebot/2.1 (+http://www.google.com/bot.html)")
	})
	assert.Contains(t, agent, "bot:")
}

func TestEmptyUserAgent(t *testing.T) {
	_, agent := runMetadata(t, func(r *http.Request) {
		r.Header.Del("User-Agent")
	})
	assert.Equal(t, "", agent)
}

func TestWithClientMetadataForServiceTests(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "10.1.1.1", "curl/8")
	assert.Equal(t, "10.1.1.1", GetClientIP(ctx))
	assert.Equal(t, "curl/8", GetClientAgent(ctx))
}

func TestMissingMetadataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetClientIP(ctx))
	assert.Equal(t, "", GetClientAgent(ctx))
}
