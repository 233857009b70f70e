package api

import (
	"errors"
	"net/http"
	"regexp"

	"signup-api/internal/response"
	"signup-api/internal/services"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// StorePaymentRequest represents the payment submission from step 3. Card
// fields are required only when paying by card.
type StorePaymentRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	PlanID        uint   `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card apple_pay google_pay paypal"`
	CardNumber    string `json:"card_number" binding:"required_if=PaymentMethod card"`
	Expiry        string `json:"expiry" binding:"required_if=PaymentMethod card"`
	CVC           string `json:"cvc" binding:"required_if=PaymentMethod card,omitempty,min=3,max=4"`
	Country       string `json:"country" binding:"omitempty,max=100"`
	ZipCode       string `json:"zip_code" binding:"omitempty,max=10"`
	CouponCode    string `json:"coupon_code" binding:"omitempty,max=50"`
}

var paymentFields = map[string]string{
	"UserID":        "user_id",
	"PlanID":        "plan_id",
	"PaymentMethod": "payment_method",
	"CardNumber":    "card_number",
	"Expiry":        "expiry",
	"CVC":           "cvc",
	"Country":       "country",
	"ZipCode":       "zip_code",
	"CouponCode":    "coupon_code",
}

var paymentMessages = map[string]string{
	"payment_method.oneof":    "Please choose a valid payment method.",
	"card_number.required_if": "Please enter your card number.",
	"expiry.required_if":      "Please enter your card expiry date.",
	"cvc.required_if":         "Please enter your card security code.",
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// StorePayment charges the gateway and, on approval, persists the order and
// links affiliate attribution. Declines and timeouts return the gateway's
// reason and write nothing.
// POST /signup/payment
func StorePayment(c *gin.Context) {
	var req StorePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorJSON(c, bindingErrors(err, paymentFields, paymentMessages))
		return
	}

	if req.PaymentMethod == services.PaymentMethodCard && !expiryPattern.MatchString(req.Expiry) {
		response.ValidationErrorJSON(c, map[string][]string{
			"expiry": {"Expiry must be in MM/YY format."},
		})
		return
	}

	summary, err := checkoutService.ProcessPayment(c.Request.Context(), services.ProcessPaymentRequest{
		UserID:        req.UserID,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		Expiry:        req.Expiry,
		CVC:           req.CVC,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		var rejected *services.PaymentRejectedError
		switch {
		case errors.As(err, &rejected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   rejected.Reason,
			})
		case errors.Is(err, services.ErrUserNotFound):
			response.ValidationErrorJSON(c, map[string][]string{
				"user_id": {"The selected user is invalid."},
			})
		case errors.Is(err, services.ErrPlanNotFound):
			response.ValidationErrorJSON(c, map[string][]string{
				"plan_id": {"The selected plan is invalid."},
			})
		default:
			logging.Errorf("Failed to process payment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to process payment",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   summary,
	})
}
