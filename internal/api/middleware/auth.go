package middleware

import (
	"credit-engine/internal/config"
	"credit-engine/internal/domain/user"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// anonymousAdmin is injected when authentication is switched off so handlers can keep
// their ownership checks unconditional.
var anonymousAdmin = &user.Claims{Role: user.RoleAdmin}

func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(user.WithPrincipal(r.Context(), anonymousAdmin)))
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(r, cfg.JWTSecret, logger)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(user.WithPrincipal(r.Context(), claims)))
		})
	}
}

// RequireRole lets the request through only when the authenticated principal holds one of roles.
func RequireRole(logger *slog.Logger, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := user.PrincipalFrom(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				logger.WarnContext(r.Context(), "AuthMiddleware: Role not permitted",
					"subject", claims.Subject, "role", claims.Role, "path", r.URL.Path)
				writeAuthError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, secret string, logger *slog.Logger) (*user.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.WarnContext(r.Context(), "AuthMiddleware: Missing Authorization header")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		logger.WarnContext(r.Context(), "AuthMiddleware: Invalid Authorization header format")
		return nil, false
	}

	claims, err := user.ParseToken(strings.TrimSpace(parts[1]), secret)
	if err != nil {
		logger.WarnContext(r.Context(), "AuthMiddleware: Invalid token", "error", err)
		return nil, false
	}

	logger.DebugContext(r.Context(), "AuthMiddleware: Authenticated request", "subject", claims.Subject, "role", claims.Role)
	return claims, true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": message},
	})
}
