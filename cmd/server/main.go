package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingapp "github.com/taskflow/backend/internal/application/billing"
	projectapp "github.com/taskflow/backend/internal/application/project"
	timesheetapp "github.com/taskflow/backend/internal/application/timesheet"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/infrastructure/payment"
	"github.com/taskflow/backend/internal/infrastructure/persistence"
	"github.com/taskflow/backend/internal/interfaces/http/handler"
	"github.com/taskflow/backend/internal/interfaces/http/middleware"
	"github.com/taskflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting TaskFlow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	timeEntryRepo := persistence.NewGormTimeEntryRepository(db.DB)

	// Billing currency and calculation service
	currency, err := valueobject.NewCurrency(cfg.Billing.DefaultCurrency)
	if err != nil {
		log.Fatal("Invalid default currency", zap.Error(err))
	}
	calcService, err := billing.NewCalculationService(currency)
	if err != nil {
		log.Fatal("Failed to create calculation service", zap.Error(err))
	}

	// Payment gateway: Stripe when a key is configured, otherwise a
	// logging gateway that accepts everything without charging
	var gateway billing.PaymentGateway
	if cfg.Billing.StripeAPIKey != "" {
		gateway, err = payment.NewStripeGateway(cfg.Billing.StripeAPIKey, log)
		if err != nil {
			log.Fatal("Failed to create Stripe gateway", zap.Error(err))
		}
		log.Info("Using Stripe payment gateway")
	} else {
		gateway = payment.NewLoggingGateway(log)
		log.Warn("No Stripe API key configured, payments will be logged only")
	}

	// Initialize application services
	projectService := projectapp.NewProjectService(projectRepo, taskRepo, log)
	taskService := projectapp.NewTaskService(taskRepo, projectRepo, log)
	trackingService := timesheetapp.NewTrackingService(timeEntryRepo, currency, log)
	subscriptionService := billingapp.NewSubscriptionService(
		planRepo, subscriptionRepo, invoiceRepo,
		calcService, gateway,
		decimal.NewFromFloat(cfg.Billing.DefaultTaxRate),
		log,
	)

	// Initialize HTTP handlers
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	timesheetHandler := handler.NewTimesheetHandler(trackingService)
	billingHandler := handler.NewBillingHandler(subscriptionService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(projectHandler)
	r.Register(taskHandler)
	r.Register(timesheetHandler)
	r.Register(billingHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
