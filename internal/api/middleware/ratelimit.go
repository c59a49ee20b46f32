package middleware

import (
	"context"
	"credit-engine/internal/config"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const unknownIP = "unknown"

// RateLimiterMiddleware throttles requests per client IP. With a Redis client the budget is
// a fixed one second window shared by every instance; without one each process keeps its
// own token buckets.
type RateLimiterMiddleware struct {
	cfg         config.RateLimitConfig
	redisClient *redis.Client
	limiters    sync.Map
	window      time.Duration
	logger      *slog.Logger
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client, logger *slog.Logger) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		cfg:         cfg,
		redisClient: redisClient,
		window:      time.Second,
		logger:      logger.With("component", "RateLimiter"),
	}

	switch {
	case !cfg.Enabled:
		rl.logger.Info("Rate limiting is disabled via configuration.")
	case redisClient != nil:
		rl.logger.Info("Rate limiter backed by Redis", "rps", cfg.RPS, "window", rl.window)
	default:
		rl.logger.Info("Rate limiter kept in process", "rps", cfg.RPS, "burst", cfg.Burst)
	}
	return rl
}

// StartCleanup drops idle in-process limiters until ctx is done.
func (rl *RateLimiterMiddleware) StartCleanup(ctx context.Context, every time.Duration) {
	if rl.redisClient != nil {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanupLimiters()
			}
		}
	}()
}

func (rl *RateLimiterMiddleware) cleanupLimiters() {
	rl.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(limiter.Burst()) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
		return parsed.String()
	}

	rl.logger.Warn("Could not determine client IP for rate limiting", "remoteAddr", r.RemoteAddr)
	return unknownIP
}

// allowShared counts the request in Redis. Redis failures fail open.
func (rl *RateLimiterMiddleware) allowShared(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("ratelimit:%s", ip)

	pipe := rl.redisClient.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.ErrorContext(ctx, "Redis pipeline failed during rate limiting check", "error", err, "ip", ip)
		return true
	}

	limit := int64(math.Max(1, math.Ceil(rl.cfg.RPS)))
	return incrCmd.Val() <= limit
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)
		if ip == unknownIP {
			rl.logger.ErrorContext(r.Context(), "Blocking request due to unknown client IP for rate limiting")
			writeAuthError(w, http.StatusForbidden, "Forbidden")
			return
		}

		var allowed bool
		if rl.redisClient != nil {
			allowed = rl.allowShared(r.Context(), ip)
		} else {
			allowed = rl.getLimiter(ip).Allow()
		}

		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
