package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the caller's opaque session identifier. Every booking
// endpoint requires one; the client keeps it for the life of the browsing
// session so state survives reloads and new tabs.
const SessionHeader = "X-Session-Id"

// SessionMiddleware requires a session identifier and sets "sessionID" on the
// context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Missing " + SessionHeader + " header",
				"code":  0,
			})
			return
		}
		if _, err := uuid.Parse(sid); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Invalid " + SessionHeader + " header",
				"code":  0,
			})
			return
		}
		c.Set("sessionID", sid)
		c.Next()
	}
}
