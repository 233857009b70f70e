package api

import (
	"errors"
	"net/http"

	"signup-api/internal/middleware"
	"signup-api/internal/response"
	"signup-api/internal/services"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// StoreAccountRequest represents the account-creation form
type StoreAccountRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

var accountFields = map[string]string{
	"Email":    "email",
	"Password": "password",
}

var accountMessages = map[string]string{
	"email.required":    "Please enter your email address.",
	"email.email":       "Please enter a valid email address.",
	"password.required": "Please enter a password.",
	"password.min":      "Password must be at least 6 characters.",
}

// StoreAccount creates the user account for step 2 and records affiliate
// attribution when the session carries campaign params.
// POST /signup/account
func StoreAccount(c *gin.Context) {
	var req StoreAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrorJSON(c, bindingErrors(err, accountFields, accountMessages))
		return
	}

	attribution := &services.AttributionContext{
		SessionID: middleware.SessionID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if sessions != nil {
		params, err := sessions.AffiliateParams(c.Request.Context(), attribution.SessionID)
		if err != nil {
			logging.Errorf("Failed to load affiliate params: %v", err)
		} else {
			attribution.Params = params
		}
	}

	user, err := accountService.CreateAccount(req.Email, req.Password, attribution)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.ValidationErrorJSON(c, map[string][]string{
				"email": {"An account with this email already exists."},
			})
			return
		}
		logging.Errorf("Failed to create account: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create account",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}
