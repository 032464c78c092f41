package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the anonymous visitor ID.
	SessionCookieName = "urbano_session"
	// SessionIDKey is the gin context key the session ID is stored under.
	SessionIDKey = "session_id"

	sessionCookieMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// SessionMiddleware assigns every visitor a stable session ID cookie. The ID
// keys the guest cart and the pending-quantity stash, and is read during
// sign-in to merge the guest cart.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the visitor session ID from context.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
