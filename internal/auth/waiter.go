// Package auth carries the waiter identity. There is no real
// authentication, a waiter "logs in" by having their name stored in a
// cookie that order submissions read back.
package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	// WaiterCookie names the cookie holding the waiter name.
	WaiterCookie = "waiter"

	waiterCookieMaxAge = 60 * 60 * 24 * 7 // 1 week
)

// Waiter returns the waiter name from the request cookie, or "" when the
// waiter never logged in.
func Waiter(c *gin.Context) string {
	name, err := c.Cookie(WaiterCookie)
	if err != nil {
		return ""
	}
	return name
}

// SetWaiter stores the waiter name on the response.
func SetWaiter(c *gin.Context, name string) {
	c.SetCookie(WaiterCookie, name, waiterCookieMaxAge, "/", "", false, false)
}
