package middleware

import (
	"strings"

	"movie-catalog/helper"
	"movie-catalog/models"
	"movie-catalog/session"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "sessionId"

	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "session_token"
)

// Guard derives the caller's identity from the session token and enforces
// the authenticated and admin-only policies.
type Guard struct {
	store  *session.Store
	helper *helper.HTTPHelper
}

func NewGuard(store *session.Store, h *helper.HTTPHelper) *Guard {
	return &Guard{store: store, helper: h}
}

func (g *Guard) IsAuthenticated(token string) bool {
	_, ok := g.store.Resolve(token)
	return ok
}

// IsAdmin is true only for a live session whose role is exactly ADMIN.
func (g *Guard) IsAdmin(token string) bool {
	principal, ok := g.store.Resolve(token)
	return ok && principal.Role == models.RoleAdmin
}

// Identify attaches the principal when the request carries a live token.
// It never rejects.
func (g *Guard) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.identify(c)
		c.Next()
	}
}

// RequireAuth rejects requests without a live session with 401.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.identify(c); !ok {
			g.helper.SendUnauthorizedError(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin answers 401 without a live session and 403 when the
// session does not belong to an admin.
func (g *Guard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := g.identify(c)
		if !ok {
			g.helper.SendUnauthorizedError(c, "authentication required")
			c.Abort()
			return
		}
		if principal.Role != models.RoleAdmin {
			g.helper.SendForbiddenError(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (g *Guard) identify(c *gin.Context) (session.Principal, bool) {
	if v, exists := c.Get(ContextUserID); exists {
		role, _ := c.Get(ContextRole)
		r, _ := role.(models.UserRole)
		return session.Principal{UserID: v.(uint), Role: r}, true
	}

	token := TokenFromRequest(c)
	principal, ok := g.store.Resolve(token)
	if !ok {
		return session.Principal{}, false
	}

	c.Set(ContextUserID, principal.UserID)
	c.Set(ContextRole, principal.Role)
	c.Set(ContextToken, token)
	return principal, true
}

// TokenFromRequest reads the session cookie, falling back to a bearer
// Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return strings.TrimSpace(tokenString)
}

// CurrentUser returns the principal attached by the guard.
func CurrentUser(c *gin.Context) (uint, models.UserRole, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, "", false
	}
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.UserRole)
	return v.(uint), r, true
}
