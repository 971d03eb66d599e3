package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nordvik-as/sales-api/docs"
	"github.com/nordvik-as/sales-api/internal/auth"
	"github.com/nordvik-as/sales-api/internal/config"
	"github.com/nordvik-as/sales-api/internal/database"
	"github.com/nordvik-as/sales-api/internal/http/handler"
	"github.com/nordvik-as/sales-api/internal/http/middleware"
	"github.com/nordvik-as/sales-api/internal/http/router"
	"github.com/nordvik-as/sales-api/internal/jobs"
	"github.com/nordvik-as/sales-api/internal/logger"
	"github.com/nordvik-as/sales-api/internal/repository"
	"github.com/nordvik-as/sales-api/internal/service"
	"go.uber.org/zap"
)

// @title Nordvik Sales API
// @version 1.0
// @description Sales document API for quotes, orders and invoices
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@nordvik.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "sales-api-staging.nordvik.no"
	case "production":
		docs.SwaggerInfo.Host = "sales-api.nordvik.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema migrations run via cmd/migrate; AutoMigrate only covers
	// local development convenience
	if cfg.App.Environment == "development" && os.Getenv("AUTO_MIGRATE") == "true" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("AutoMigrate completed")
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	catalogService := service.NewCatalogService(clientRepo, employeeRepo, productRepo, log)
	quoteService := service.NewQuoteService(db, quoteRepo, clientRepo, employeeRepo, productRepo, orderRepo, numberSequenceService, log)
	orderService := service.NewOrderService(db, orderRepo, quoteRepo, clientRepo, employeeRepo, productRepo, invoiceRepo, numberSequenceService, log)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, orderRepo, numberSequenceService, cfg.Billing.DueDays, log)

	// Bind the cross-manager capabilities: quote conversion creates
	// orders, order invoicing creates invoices
	quoteService.SetOrderCreator(orderService)
	orderService.SetInvoiceCreator(invoiceService)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		quoteHandler,
		orderHandler,
		invoiceHandler,
		catalogHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueInvoiceJob(
			scheduler,
			invoiceService,
			log,
			cfg.Jobs.OverdueSweepCron,
		); err != nil {
			log.Error("Failed to register overdue invoice job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with overdue invoice sweep",
				zap.String("cron_expr", cfg.Jobs.OverdueSweepCron),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
