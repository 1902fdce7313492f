package middleware

import (
	"toolrank/internal/apperrors"
	"toolrank/internal/models"
	"toolrank/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// VisitorCookie is the durable anonymous session id, minted once per
	// browser and kept for about a year.
	VisitorCookie = "tr_vid"
	VisitorKey    = "visitor_id"

	visitorCookieMaxAge = 365 * 24 * 3600
)

// EnsureVisitorID mints the anonymous session cookie when absent and
// exposes it to handlers through the context.
func EnsureVisitorID() gin.HandlerFunc {
	return func(c *gin.Context) {
		vid, err := c.Cookie(VisitorCookie)
		if err != nil || vid == "" {
			vid = uuid.NewString()
			c.SetCookie(VisitorCookie, vid, visitorCookieMaxAge, "/", "", false, true)
		}
		c.Set(VisitorKey, vid)
		c.Next()
	}
}

// ResolveIdentity returns the caller's identity, preferring the
// authenticated user id. Write paths fail closed when neither a login
// session nor a visitor cookie is available.
func ResolveIdentity(c *gin.Context) (services.Identity, error) {
	var ident services.Identity
	if u, exists := c.Get(CheckUserKey); exists {
		user := u.(*models.User)
		ident.UserID = &user.ID
	}
	if v, exists := c.Get(VisitorKey); exists {
		ident.SessionID = v.(string)
	}
	if ident.UserID == nil && ident.SessionID == "" {
		return ident, apperrors.ErrAuthRequired
	}
	return ident, nil
}
