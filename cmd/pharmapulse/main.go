package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pharmapulse/pharmapulse/internal/analytics"
	analytichttp "github.com/pharmapulse/pharmapulse/internal/analytics/http"
	"github.com/pharmapulse/pharmapulse/internal/app"
	"github.com/pharmapulse/pharmapulse/internal/auth"
	"github.com/pharmapulse/pharmapulse/internal/masterdata/pharmacies"
	"github.com/pharmapulse/pharmapulse/internal/masterdata/products"
	"github.com/pharmapulse/pharmapulse/internal/platform/db"
	"github.com/pharmapulse/pharmapulse/internal/reports"
	"github.com/pharmapulse/pharmapulse/internal/reports/artifact"
	reporthttp "github.com/pharmapulse/pharmapulse/internal/reports/http"
	"github.com/pharmapulse/pharmapulse/internal/sales"
	"github.com/pharmapulse/pharmapulse/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, "api")

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens)
	authMiddleware := auth.NewMiddleware(authService, logger)
	authHandler := auth.NewHandler(authService, authMiddleware, logger)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsTTL)
	analyticsRepo := analytics.NewRepository(pool)
	analyticsService := analytics.NewService(analyticsRepo, analyticsCache)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)))
	pharmaciesHandler := pharmacies.NewHandler(logger, pharmacies.NewService(pharmacies.NewRepository(pool)))
	salesHandler := sales.NewHandler(logger, sales.NewService(sales.NewRepository(pool), analyticsCache))

	queueClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	artifactStore := artifact.NewStore(cfg.ReportsDir)
	reportsService := reports.NewService(reports.ServiceConfig{
		Repo:       reports.NewRepository(pool),
		Store:      artifactStore,
		Dispatcher: queueClient,
		Logger:     logger,
		Expiry:     cfg.ReportExpiry,
	})
	reportsHandler := reporthttp.NewHandler(logger, reportsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		ProductsHandler:   productsHandler,
		PharmaciesHandler: pharmaciesHandler,
		SalesHandler:      salesHandler,
		AnalyticsHandler:  analyticsHandler,
		ReportsHandler:    reportsHandler,
		JobHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
