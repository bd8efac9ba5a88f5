package handlers

import (
	"pharmabook/services/session"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user id set by the auth middleware,
// or "" for guests.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// cartOwner returns the key the cart is stored under: the user id once
// signed in, the opaque session id while browsing as a guest.
func cartOwner(c *gin.Context) string {
	if id := currentUserID(c); id != "" {
		return id
	}
	return c.GetString("sessionID")
}

// sessionScope binds the shared session mirror to the caller's session id.
func sessionScope(mirror *session.Mirror, c *gin.Context) *session.Scope {
	return session.NewScope(mirror, c.GetString("sessionID"))
}
