package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/library"
)

// Context keys for the resolved caller
const (
	ContextKeyUserID  = "auth_user_id"
	ContextKeyIsAdmin = "auth_is_admin"
)

// Middleware resolves the session into a caller identity for every request.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// Handler returns a Gin middleware that loads the user behind the session,
// if any, and stores their ID and admin flag in the request context.
// Requests without a session proceed anonymously; the access policy inside
// the core rejects what anonymous callers may not do.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessionManager.SessionUserID(c.Request)
		if userID == "" {
			c.Next()
			return
		}

		// Re-read the record so a revoked admin flag takes effect
		// immediately, not at session expiry.
		user, err := m.service.GetUserByID(userID)
		if err != nil {
			// Stale session for a deleted account.
			_ = m.sessionManager.DestroySession(c.Request)
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyIsAdmin, user.IsAdmin)
		c.Next()
	}
}

// CallerFromContext builds the access-policy caller from the Gin context.
// Returns library.Anonymous when the request is unauthenticated.
func CallerFromContext(c *gin.Context) library.Caller {
	userID, ok := c.Get(ContextKeyUserID)
	if !ok {
		return library.Anonymous
	}
	isAdmin, _ := c.Get(ContextKeyIsAdmin)
	admin, _ := isAdmin.(bool)
	return library.Caller{UserID: userID.(string), IsAdmin: admin}
}
