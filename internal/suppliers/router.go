package suppliers

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSupplierRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.JWTAuthWithConfig(cfg))
	{
		suppliers.GET("", controller.ListSuppliers)   // GET /api/v1/suppliers
		suppliers.GET("/:id", controller.GetSupplier) // GET /api/v1/suppliers/:id

		admin := suppliers.Group("")
		admin.Use(middleware.RequireRole("ADMIN"))
		{
			admin.POST("", controller.CreateSupplier)        // POST /api/v1/suppliers
			admin.PUT("/:id", controller.UpdateSupplier)     // PUT /api/v1/suppliers/:id
			admin.DELETE("/:id", controller.DeleteSupplier)  // DELETE /api/v1/suppliers/:id
		}
	}

	plans := rg.Group("/rate-plans")
	plans.Use(middleware.JWTAuthWithConfig(cfg))
	{
		plans.GET("", controller.ListRatePlans)   // GET /api/v1/rate-plans?variant_id=...
		plans.GET("/:id", controller.GetRatePlan) // GET /api/v1/rate-plans/:id

		admin := plans.Group("")
		admin.Use(middleware.RequireRole("ADMIN"))
		{
			admin.POST("", controller.CreateRatePlan)       // POST /api/v1/rate-plans
			admin.DELETE("/:id", controller.DeleteRatePlan) // DELETE /api/v1/rate-plans/:id
		}
	}
}
