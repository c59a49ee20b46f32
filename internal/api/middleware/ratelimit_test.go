package middleware

import (
	"bytes"
	"credit-engine/internal/config"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := config.RateLimitConfig{
		Enabled: true,
		RPS:     1,
		Burst:   2,
	}

	t.Run("blocks requests exceeding the burst", func(t *testing.T) {
		handler := NewRateLimiterMiddleware(cfg, nil, logger).Middleware(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"

		for i := 0; i < cfg.Burst; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))

		var response map[string]map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "Rate limit exceeded", response["error"]["message"])
	})

	t.Run("tracks clients separately", func(t *testing.T) {
		handler := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, nil, logger).Middleware(okHandler())

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "10.0.0.1:1"
		second := httptest.NewRequest(http.MethodGet, "/", nil)
		second.RemoteAddr = "10.0.0.2:1"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled limiter passes everything through", func(t *testing.T) {
		handler := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, nil, logger).Middleware(okHandler())

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("unreachable redis fails open", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
		defer client.Close()
		handler := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, client, logger).Middleware(okHandler())

		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "127.0.0.1:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("extractIP handles various headers", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(cfg, nil, logger)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
		assert.Equal(t, "192.168.1.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		assert.Equal(t, "10.0.0.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "not-an-ip")
		req.RemoteAddr = "127.0.0.1:12345"
		assert.Equal(t, "127.0.0.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "garbage"
		assert.Equal(t, unknownIP, rl.extractIP(req))
	})

	t.Run("unknown client is forbidden", func(t *testing.T) {
		handler := NewRateLimiterMiddleware(cfg, nil, logger).Middleware(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "garbage"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCleanupLimiters(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2}, nil, logger)

	idle := rl.getLimiter("10.0.0.1")
	busy := rl.getLimiter("10.0.0.2")
	require.True(t, busy.Allow())
	require.True(t, busy.Allow())
	assert.NotSame(t, idle, busy)

	rl.cleanupLimiters()

	_, idleKept := rl.limiters.Load("10.0.0.1")
	_, busyKept := rl.limiters.Load("10.0.0.2")
	assert.False(t, idleKept)
	assert.True(t, busyKept)
}
