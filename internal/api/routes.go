package api

import (
	"net/http"

	"signup-api/internal/middleware"
	"signup-api/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	sessions        services.SessionStore
	accountService  *services.AccountService
	checkoutService *services.CheckoutService
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, store services.SessionStore, accounts *services.AccountService, checkout *services.CheckoutService) {
	sessions = store
	accountService = accounts
	checkoutService = checkout
	middleware.InitSessionStore(store)

	r.Use(middleware.SessionMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/signup")
	})

	signup := r.Group("/signup")
	{
		// Page loads run affiliate capture; form posts do not
		signup.GET("", middleware.AffiliateCapture(), ShowSignup)
		signup.GET("/:step", middleware.AffiliateCapture(), ShowSignup)

		signup.POST("/account", StoreAccount)
		signup.POST("/payment", StorePayment)

		signup.GET("/state", GetWizardState)
		signup.PUT("/state", SaveWizardState)
		signup.DELETE("/state", ResetWizardState)

		signup.GET("/events", GetEvents)
		signup.POST("/events", TrackEvent)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "signup-api",
		})
	})
}
