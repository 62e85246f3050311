package inventory

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	allocations := rg.Group("/allocations")
	allocations.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRole("ADMIN"))
	{
		allocations.POST("", controller.SetAllocations) // POST /api/v1/allocations
	}

	availability := rg.Group("/availability")
	availability.Use(middleware.JWTAuthWithConfig(cfg))
	{
		availability.GET("/calendar", controller.GetCalendar) // GET /api/v1/availability/calendar
	}
}
