package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	// AdminCookie is the legacy opaque admin session, kept alive for the
	// dashboard migration. The role claim on the user account is the
	// other accepted path; either one alone is sufficient.
	AdminCookie = "tr_admin_session"

	AdminCookieMaxAge = 24 * 3600
)

// IsAdmin reports whether the caller passes either admin check.
func IsAdmin(c *gin.Context) bool {
	if user := CurrentUser(c); user != nil && user.IsAdmin() {
		return true
	}
	return adminCookieValid(c)
}

func adminCookieValid(c *gin.Context) bool {
	token := os.Getenv("ADMIN_SESSION_TOKEN")
	if token == "" {
		return false
	}
	value, err := c.Cookie(AdminCookie)
	if err != nil || value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(value), []byte(token)) == 1
}

// AdminRequired gates the privileged operation surface. Failing the
// check yields 403 and no side effects.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
