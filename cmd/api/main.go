package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/handlers"
	"github.com/ntusports/reconcile-api/internal/jobs"
	"github.com/ntusports/reconcile-api/internal/middleware"
	"github.com/ntusports/reconcile-api/internal/services"
	"github.com/ntusports/reconcile-api/internal/storage"
	"github.com/ntusports/reconcile-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Reconcile API
// @version 1.0
// @description REST API for club membership fee and facility booking reconciliation

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set: the auth endpoint will reject all logins")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(cfg, store, worker)

	// Schedule recurring jobs
	scheduleJobs(worker, store, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, cfg)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		v1.POST("/auth/token", h.Auth.Token)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/reconciliations", h.Reconciliation.Create)
			protected.GET("/reconciliations/latest", h.Reconciliation.Latest)
			protected.GET("/reconciliations/latest/summary", h.Reconciliation.Summary)
			protected.GET("/reconciliations/latest/summary.txt", h.Reconciliation.SummaryText)
			protected.GET("/reconciliations/latest/accounts", h.Reconciliation.Accounts)
			protected.GET("/reconciliations/latest/review", h.Reconciliation.Review)
			protected.GET("/reconciliations/latest/booking-issues", h.Reconciliation.BookingIssues)

			// Static routes first so they are not matched as :artifact
			protected.GET("/reports", h.Report.Index)
			protected.GET("/reports/workbook.xlsx", h.Report.DownloadXLSX)
			protected.GET("/reports/summary.pdf", h.Report.DownloadPDF)
			protected.GET("/reports/:artifact", h.Report.DownloadCSV)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config) {
	// Prune archived runs past the retention window once a day
	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		removed, err := store.PruneRuns(retention)
		if err != nil {
			return fmt.Errorf("pruning archived runs: %w", err)
		}
		if removed > 0 {
			logger.Info("[Job] Pruned archived runs", "removed", removed)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
