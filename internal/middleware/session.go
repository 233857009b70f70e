package middleware

import (
	"signup-api/internal/config"
	"signup-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName identifies the funnel session in the browser
const SessionCookieName = "signup_session"

// Sessions is the shared session store used by the middleware chain
var Sessions services.SessionStore

// InitSessionStore wires the session store used for affiliate capture
func InitSessionStore(store services.SessionStore) {
	Sessions = store
}

// SessionMiddleware ensures every request carries a session id, minting a
// cookie on first contact. The id is exposed to handlers via the context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			maxAge := config.AppConfig.SessionExpireHours * 3600
			c.SetCookie(SessionCookieName, sessionID, maxAge, "/", "", false, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// SessionID returns the request's session id set by SessionMiddleware
func SessionID(c *gin.Context) string {
	if sid, exists := c.Get("session_id"); exists {
		return sid.(string)
	}
	return ""
}
