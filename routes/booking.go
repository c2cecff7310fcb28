package routes

import (
	"servio/handlers"
	"servio/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/bookings")
	{
		booking.Use(middleware.JWTAuthMiddleware())
		booking.GET("/:id", hb.GetBooking)
		booking.GET("/:id/history", hb.GetBookingHistory)
		booking.POST("/:id/status", hb.UpdateBookingStatus)
		booking.POST("/:id/reschedule", hb.RescheduleBooking)
		booking.POST("/:id/notes", hb.AddBookingNote)
	}
}
