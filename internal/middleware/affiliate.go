package middleware

import (
	"signup-api/internal/wizard"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// AffiliateCapture records first-touch campaign parameters into the session.
// Tracked query params with non-empty values are merged over whatever the
// session already holds, and the full request URL is stamped as landing_url.
// Capture is best effort and never blocks the request.
func AffiliateCapture() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := map[string]string{}
		for _, key := range wizard.TrackedParams {
			query[key] = c.Query(key)
		}
		params := wizard.ExtractTrackedParams(query)

		if len(params) > 0 && Sessions != nil {
			params["landing_url"] = fullRequestURL(c)
			sessionID := SessionID(c)
			if err := Sessions.MergeAffiliateParams(c.Request.Context(), sessionID, params); err != nil {
				logging.Errorf("Failed to capture affiliate params for session %s: %v", sessionID, err)
			}
		}

		c.Next()
	}
}

// fullRequestURL reconstructs the URL the visitor landed on
func fullRequestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + c.Request.RequestURI
}
