package api

import (
	"credit-engine/internal/api/handler"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/domain/user"
	"log/slog"
	"net/http"
	"time"

	_ "credit-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(rateLimiter *mw.RateLimiterMiddleware, loanService loan.LoanService, customerService customer.CustomerService,
	authService user.AuthService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, authService, logger)
	setupCustomerRoutes(router, cfg, customerService, authService, logger)
	setupLoanRoutes(router, cfg, loanService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, authService user.AuthService, logger *slog.Logger) {
	if authService == nil {
		logger.Warn("No auth service configured, /auth routes disabled")
		return
	}
	authHandler := handler.NewAuthHandler(authService, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, svc customer.CustomerService, authService user.AuthService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, authService, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.With(mw.RequireRole(logger, user.RoleAdmin)).Post("/", h.CreateCustomer)
		r.Get("/{customerID}", h.GetCustomer)
	})
}

func setupLoanRoutes(router *chi.Mux, cfg *config.Config, loanService loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(loanService, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.With(mw.RequireRole(logger, user.RoleAdmin)).Post("/", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/installments", h.ListInstallments)
			r.Post("/pay", h.PayLoan)
		})
	})
}
