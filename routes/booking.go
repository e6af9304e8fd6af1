package routes

import (
	"github.com/gin-gonic/gin"

	"superscooops/handlers"
)

// RegisterBookingRoutes registers all endpoints for the booking workflow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.GET("/catalog", hb.Booking.Catalog)
		booking.POST("/session", hb.Booking.StartSession)
		booking.GET("/session/:sessionID", hb.Booking.GetSession)
		booking.PUT("/session/:sessionID/quote", hb.Booking.UpdateQuote)
		booking.PUT("/session/:sessionID/contact", hb.Booking.SubmitContact)
		booking.PUT("/session/:sessionID/payment", hb.Booking.SubmitPayment)
		booking.POST("/session/:sessionID/lead", hb.Booking.SubmitLead)
		booking.POST("/confirm", hb.Booking.Activate)
		booking.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}
}
