package api

import (
	"net/http"

	"signup-api/internal/middleware"
	"signup-api/internal/response"
	"signup-api/internal/wizard"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// GetWizardState returns the session's persisted wizard snapshot, or null
// when the visitor has none yet. Card fields are stripped on the way out
// whatever the stored payload contains.
// GET /signup/state
func GetWizardState(c *gin.Context) {
	raw, err := sessions.Snapshot(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		logging.Errorf("Failed to load wizard state: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load state")
		return
	}
	if raw == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "state": nil})
		return
	}

	snap, err := wizard.DecodeSnapshot(raw)
	if err != nil {
		// A corrupt snapshot is treated as absent
		c.JSON(http.StatusOK, gin.H{"success": true, "state": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "state": snap})
}

// SaveWizardState persists the wizard snapshot for the session. Sensitive
// card fields are dropped before the write.
// PUT /signup/state
func SaveWizardState(c *gin.Context) {
	var snap wizard.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid state payload")
		return
	}

	raw, err := wizard.EncodeSnapshot(snap)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to encode state")
		return
	}

	if err := sessions.SaveSnapshot(c.Request.Context(), middleware.SessionID(c), raw); err != nil {
		logging.Errorf("Failed to save wizard state: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to save state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResetWizardState clears all session state at the end of the flow
// DELETE /signup/state
func ResetWizardState(c *gin.Context) {
	if err := sessions.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		logging.Errorf("Failed to clear session state: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to reset state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
