package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "cart_sid"

// sessionID resolves the cart session scope for this request. Every cart
// operation takes it explicitly; there is no ambient "current cart".
func sessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, 30*24*3600, "/", "", false, true)
	return sid
}
