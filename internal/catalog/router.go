package catalog

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	products := rg.Group("/products")
	products.Use(middleware.JWTAuthWithConfig(cfg))
	{
		products.GET("", controller.ListProducts)    // GET /api/v1/products
		products.GET("/:id", controller.GetProduct)  // GET /api/v1/products/:id

		// Catalog editing requires the admin role
		admin := products.Group("")
		admin.Use(middleware.RequireRole("ADMIN"))
		{
			admin.POST("", controller.CreateProduct)      // POST /api/v1/products
			admin.PUT("/:id", controller.UpdateProduct)   // PUT /api/v1/products/:id
			admin.DELETE("/:id", controller.DeleteProduct) // DELETE /api/v1/products/:id

			admin.POST("/:id/variants", controller.CreateVariant)      // POST /api/v1/products/:id/variants
			admin.POST("/:id/taxes", controller.CreateTax)             // POST /api/v1/products/:id/taxes
			admin.DELETE("/:id/taxes/:taxId", controller.DeleteTax)    // DELETE /api/v1/products/:id/taxes/:taxId
		}
	}

	variants := rg.Group("/variants")
	variants.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRole("ADMIN"))
	{
		variants.PUT("/:id", controller.UpdateVariant)    // PUT /api/v1/variants/:id
		variants.DELETE("/:id", controller.DeleteVariant) // DELETE /api/v1/variants/:id
	}
}
