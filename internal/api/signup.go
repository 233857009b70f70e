package api

import (
	"net/http"
	"strconv"

	"signup-api/internal/config"
	"signup-api/internal/database"
	"signup-api/internal/middleware"
	"signup-api/internal/wizard"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ShowSignup renders the wizard shell: the active plan catalog, the initial
// step, the session's affiliate params, the promotional coupon and the
// funnel configuration.
// GET /signup and GET /signup/:step
func ShowSignup(c *gin.Context) {
	plans, err := database.GetActivePlans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load plans",
		})
		return
	}

	initialStep := 1
	if raw := c.Param("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil || step < 1 || step > 4 {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Unknown signup step",
			})
			return
		}
		initialStep = step
	}

	affiliateParams := map[string]string{}
	if sessions != nil {
		params, err := sessions.AffiliateParams(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			logging.Errorf("Failed to load affiliate params: %v", err)
		} else if params != nil {
			affiliateParams = params
		}
	}

	cfg := config.AppConfig
	c.JSON(http.StatusOK, gin.H{
		"plans":           plans,
		"initialStep":     initialStep,
		"affiliateParams": affiliateParams,
		"coupon": wizard.Coupon{
			Code:          cfg.CouponCode,
			DiscountLabel: cfg.CouponLabel,
			IsApplied:     true,
		},
		"config": wizard.Settings{
			SupportEmail:   cfg.SupportEmail,
			SupportURL:     cfg.SupportURL,
			VATRate:        cfg.VATRate,
			Currency:       cfg.Currency,
			CurrencySymbol: cfg.CurrencySymbol,
			MaxDevices:     cfg.MaxDevices,
		},
	})
}
