package bookings

import (
	"tourops/internal/shared/config"
	"tourops/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("/hold", controller.PlaceHold)            // POST /api/v1/bookings/hold
		bookings.POST("/:ref/confirm", controller.ConfirmBooking) // POST /api/v1/bookings/:ref/confirm
		bookings.POST("/:ref/cancel", controller.CancelHold)    // POST /api/v1/bookings/:ref/cancel
		bookings.GET("", controller.ListBookings)               // GET /api/v1/bookings
		bookings.GET("/:ref", controller.GetBooking)            // GET /api/v1/bookings/:ref
	}
}
