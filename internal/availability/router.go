package availability

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	availability := rg.Group("/availability")
	availability.Use(middleware.JWTAuthWithConfig(cfg))
	{
		availability.GET("/search", controller.Search) // GET /api/v1/availability/search
	}
}
