package main

import (
	"context"
	_ "credit-engine/docs"
	"credit-engine/internal/api"
	"credit-engine/internal/api/middleware"
	"credit-engine/internal/batch"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/database/postgres"
	"credit-engine/internal/infrastructure/logging"
	"credit-engine/internal/pkg/clock"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

const (
	defaultOverdueSchedule = "0 2 * * *"
	defaultOverdueTimeout  = 10 * time.Minute
	limiterCleanupInterval = 5 * time.Minute
)

type services struct {
	loan     loan.LoanService
	customer customer.CustomerService
	auth     user.AuthService
}

// @title Credit Engine API
// @version 1.0
// @description Loan issuance and installment payment API.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)
	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	redisClient := initializeRedisClient(cfg, logger)

	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	rateLimiter := initializeRateLimiter(appCtx, cfg, redisClient, logger)

	svc := initializeServices(cfg, rabbitMQConn, dbPool, logger)
	bootstrapAdmin(cfg, svc.auth, logger)

	overdueJob := batch.NewOverdueReportJob(svc.loan, logger)
	cronScheduler := startBatchJobs(cfg, logger, overdueJob)
	router := api.SetupRouter(rateLimiter, svc.loan, svc.customer, svc.auth, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	if cfg.Server.Auth.Enabled && cfg.Server.Auth.JWTSecret == "" {
		logger.Error("Authentication is enabled but server.auth.jwtSecret is empty")
		os.Exit(1)
	}
	logger.Info("Application starting...", "log_level", cfg.Logger.Level, "auth_enabled", cfg.Server.Auth.Enabled)

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	if cfg.Database.RunMigrations {
		logger.Info("Applying database migrations...")
		if err := postgres.RunMigrations(cfg.Database.URL, logger); err != nil {
			logger.Error("Failed to apply database migrations", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeRateLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *middleware.RateLimiterMiddleware {
	rl := middleware.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger)
	rl.StartCleanup(ctx, limiterCleanupInterval)
	return rl
}

func initializeServices(cfg *config.Config, rabbitConn *amqp.Connection, dbPool *pgxpool.Pool, logger *slog.Logger) services {
	logger.Info("Initializing application components...")
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	userRepo := postgres.NewUserRepository(dbPool, logger)

	publisher := newEventPublisher(cfg, rabbitConn, logger)

	clk, err := clock.NewSystemClock(cfg.Clock.Timezone)
	if err != nil {
		logger.Error("Invalid clock configuration", "error", err)
		os.Exit(1)
	}

	customerService := customer.NewCustomerService(customerRepo, publisher, logger)
	return services{
		loan:     loan.NewLoanService(loanRepo, customerService, publisher, clk, logger),
		customer: customerService,
		auth:     user.NewAuthService(userRepo, cfg.Server.Auth.JWTSecret, cfg.Server.Auth.TokenTTL, logger),
	}
}

func newEventPublisher(cfg *config.Config, rabbitConn *amqp.Connection, logger *slog.Logger) event.EventPublisher {
	if rabbitConn == nil {
		logger.Info("RabbitMQ not connected, domain events will not be published")
		return event.NoopPublisher{}
	}
	publisher, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ publisher, domain events will not be published", "error", err)
		return event.NoopPublisher{}
	}
	return publisher
}

func bootstrapAdmin(cfg *config.Config, authService user.AuthService, logger *slog.Logger) {
	authCfg := cfg.Server.Auth
	if authCfg.AdminUsername == "" || authCfg.AdminPassword == "" {
		logger.Info("No bootstrap admin configured")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authService.EnsureAdmin(ctx, authCfg.AdminUsername, authCfg.AdminPassword); err != nil {
		logger.Error("Failed to create bootstrap admin", "username", authCfg.AdminUsername, "error", err)
		os.Exit(1)
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	shutdownHTTPServer(srv, serverErrors, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, rate limiting stays in process")
		return nil
	}
	logger.Info("Initializing central Redis client...")
	if cfg.Redis.Addr == "" {
		logger.Error("Redis address (addr) is not configured.")
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		os.Exit(1)
	}

	logger.Info("Central Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing central Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close central Redis client connection gracefully", "error", err)
	} else {
		logger.Info("Central Redis client connection closed.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, overdueJob *batch.OverdueReportJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	schedule := cfg.Batch.OverdueReportSchedule
	if schedule == "" {
		schedule = defaultOverdueSchedule
		logger.Warn("Overdue report schedule not configured, using default", "schedule", schedule)
	}
	jobTimeout := cfg.Batch.OverdueReportTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultOverdueTimeout
	}

	jobID, err := c.AddJob(schedule, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "OverdueReport")
		jobLogger.Info("Cron triggered: Running overdue report job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := overdueJob.Run(ctx); runErr != nil {
			jobLogger.Error("Overdue report job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule overdue report job", "schedule", schedule, slog.Any("error", err))
	} else {
		logger.Info("Scheduled overdue report job", "schedule", schedule, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled")
		return nil
	}
	uri, err := rabbitMQURI(cfg.RabbitMQ)
	if err != nil {
		logger.Error("Invalid RabbitMQ configuration", "error", err)
		os.Exit(1)
	}
	conn, err := connectRabbitMQ(uri, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	return conn
}

func rabbitMQURI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("RabbitMQ host is not configured")
	}
	port := cfg.Port
	if port == 0 {
		port = 5672
	}
	switch {
	case cfg.Username != "" && cfg.Password != "":
		return fmt.Sprintf("amqp://%s:%s@%s:%d", cfg.Username, cfg.Password, cfg.Host, port), nil
	case cfg.Username != "" || cfg.Password != "":
		return "", fmt.Errorf("RabbitMQ username and password must be provided together")
	default:
		return fmt.Sprintf("amqp://%s:%d", cfg.Host, port), nil
	}
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		logger.Info("RabbitMQ connection was not established, skipping close.")
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	}
}
