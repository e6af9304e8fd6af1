package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"superscooops/handlers"
	"superscooops/utils"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Super Scooops backend reporting for duty",
			"checks":  utils.GetHealthStatus(),
		})
	})
}

// RegisterFunctionRoutes registers the stateless endpoints the site's
// forms post to directly.
func RegisterFunctionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	functions := r.Group("/functions")
	{
		functions.POST("/create-sweep-client", hb.Functions.CreateSweepClient)
		functions.POST("/submit-booking", hb.Functions.SubmitBooking)
		functions.POST("/create-checkout", hb.Checkout.CreateCheckout)
		functions.POST("/create-billing-portal-session", hb.Checkout.CreateBillingPortalSession)
		functions.POST("/sweep-webhook", hb.Webhook.SweepWebhook)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterFunctionRoutes(r, hb)
}
