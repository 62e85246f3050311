package routes

import (
	"net/http"
	"time"

	"tourops/internal/auth"
	"tourops/internal/availability"
	"tourops/internal/bookings"
	"tourops/internal/catalog"
	"tourops/internal/inventory"
	"tourops/internal/rates"
	"tourops/internal/shared/config"
	"tourops/internal/shared/database"
	"tourops/internal/suppliers"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher bookings.EventPublisher

	inventoryService inventory.Service
}

// NewRouter creates a new router instance. publisher may be nil when Kafka
// is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes and wires the module graph
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	cacheService := cache.NewService(r.db.GetRedisClient())
	pg := r.db.GetPostgreSQL()

	// Repositories
	authRepo := auth.NewRepository(pg)
	catalogRepo := catalog.NewRepository(pg)
	supplierRepo := suppliers.NewRepository(pg)
	inventoryRepo := inventory.NewRepository(pg)
	bookingRepo := bookings.NewRepository(pg)

	// Services
	authService := auth.NewService(authRepo, r.config)
	catalogService := catalog.NewService(catalogRepo, cacheService)
	supplierService := suppliers.NewService(supplierRepo, cacheService)
	resolver := rates.NewResolver(supplierRepo)
	inventoryService := inventory.NewService(inventoryRepo, cacheService, r.config.Inventory.HoldTTL)
	availabilityService := availability.NewService(catalogRepo, inventoryService, resolver, cacheService)
	bookingService := bookings.NewService(bookingRepo, inventoryService, resolver, r.publisher, r.config.Inventory.HoldTTL)

	// The ledger invalidates search caches after every mutation, and the
	// sweep marks timed-out bookings expired
	inventoryService.SetInvalidator(availabilityService)
	inventoryService.SetExpiryHandler(bookingService)
	r.inventoryService = inventoryService

	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, auth.NewController(authService), r.config)
		catalog.SetupCatalogRoutes(api, catalog.NewController(catalogService), r.config)
		suppliers.SetupSupplierRoutes(api, suppliers.NewController(supplierService), r.config)
		rates.SetupRateRoutes(api, rates.NewController(resolver), r.config)
		inventory.SetupInventoryRoutes(api, inventory.NewController(inventoryService), r.config)
		availability.SetupAvailabilityRoutes(api, availability.NewController(availabilityService), r.config)
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), r.config)
	}

	logger.GetDefault().Info("Routes registered", "base_path", r.config.GetAPIBasePath())
}

// InventoryService exposes the wired ledger so main can start the expiry
// sweep job
func (r *Router) InventoryService() inventory.Service {
	return r.inventoryService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
