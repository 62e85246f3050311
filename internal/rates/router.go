package rates

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRateRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	rates := rg.Group("/rates")
	rates.Use(middleware.JWTAuthWithConfig(cfg))
	{
		rates.GET("/master", controller.GetMasterRate)      // GET /api/v1/rates/master
		rates.GET("/suppliers", controller.GetSupplierRates) // GET /api/v1/rates/suppliers
	}
}
