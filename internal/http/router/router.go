package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nordvik-as/sales-api/internal/auth"
	"github.com/nordvik-as/sales-api/internal/config"
	"github.com/nordvik-as/sales-api/internal/database"
	"github.com/nordvik-as/sales-api/internal/http/handler"
	"github.com/nordvik-as/sales-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/nordvik-as/sales-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	quoteHandler   *handler.QuoteHandler
	orderHandler   *handler.OrderHandler
	invoiceHandler *handler.InvoiceHandler
	catalogHandler *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	orderHandler *handler.OrderHandler,
	invoiceHandler *handler.InvoiceHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		quoteHandler:   quoteHandler,
		orderHandler:   orderHandler,
		invoiceHandler: invoiceHandler,
		catalogHandler: catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Quotes
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/number/{number}", rt.quoteHandler.GetByNumber)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.Put("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)
				r.Patch("/{id}/status", rt.quoteHandler.UpdateStatus)
				r.Post("/{id}/convert", rt.quoteHandler.Convert)
			})

			// Orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.List)
				r.Post("/", rt.orderHandler.Create)
				r.Get("/number/{number}", rt.orderHandler.GetByNumber)
				r.Get("/{id}", rt.orderHandler.GetByID)
				r.Put("/{id}", rt.orderHandler.Update)
				r.Delete("/{id}", rt.orderHandler.Delete)
				r.Patch("/{id}/status", rt.orderHandler.UpdateStatus)
				r.Post("/{id}/invoice", rt.orderHandler.CreateInvoice)
			})

			// Invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Get("/overdue", rt.invoiceHandler.GetOverdue)
				r.Post("/sweep-overdue", rt.invoiceHandler.SweepOverdue)
				r.Get("/number/{number}", rt.invoiceHandler.GetByNumber)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Delete("/{id}", rt.invoiceHandler.Delete)
				r.Post("/{id}/pay", rt.invoiceHandler.MarkPaid)
				r.Patch("/{id}/status", rt.invoiceHandler.UpdateStatus)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListClients)
				r.Post("/", rt.catalogHandler.CreateClient)
				r.Get("/{id}", rt.catalogHandler.GetClient)
			})

			// Employees
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListEmployees)
				r.Post("/", rt.catalogHandler.CreateEmployee)
				r.Get("/{id}", rt.catalogHandler.GetEmployee)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListProducts)
				r.Post("/", rt.catalogHandler.CreateProduct)
				r.Get("/{id}", rt.catalogHandler.GetProduct)
			})
		})
	})

	return r
}
