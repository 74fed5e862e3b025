package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/chirpnet/backend/internal/auth"
	"github.com/chirpnet/backend/internal/models"
	"github.com/chirpnet/backend/internal/store"
)

const (
	// SessionName is the cookie session holding the auth state.
	SessionName = "auth-session"
	// CurrUserKey is the session key under which the authenticated
	// user's id is stored.
	CurrUserKey = "curr_user"
	// ContextUserKey is the gin context key for the resolved user.
	ContextUserKey = "currentUser"

	// UnauthorizedFlash is shown after redirecting an unauthenticated
	// request away from a protected route.
	UnauthorizedFlash = "Access unauthorized."
)

type AuthMiddleware struct {
	users     *store.UserStore
	sessions  *sessions.CookieStore
	jwtSecret string
}

func NewAuthMiddleware(users *store.UserStore, sessionStore *sessions.CookieStore, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		users:     users,
		sessions:  sessionStore,
		jwtSecret: jwtSecret,
	}
}

// RequireUser resolves the authenticated user and aborts unauthenticated
// requests with a flash and a redirect to the landing page. A session
// marker referencing a deleted user counts as unauthenticated.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.resolveUser(c); user != nil {
			c.Set(ContextUserKey, user)
			c.Next()
			return
		}

		session, _ := m.sessions.Get(c.Request, SessionName)
		session.AddFlash(UnauthorizedFlash)
		if err := session.Save(c.Request, c.Writer); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

// LoadUser resolves the authenticated user if there is one but never
// refuses the request. Used by routes that render for both visitors and
// logged-in users.
func (m *AuthMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.resolveUser(c); user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// resolveUser checks the cookie session first, then falls back to a
// bearer token for API clients.
func (m *AuthMiddleware) resolveUser(c *gin.Context) *models.User {
	session, err := m.sessions.Get(c.Request, SessionName)
	if err == nil {
		if idStr, ok := session.Values[CurrUserKey].(string); ok {
			if userID, err := uuid.Parse(idStr); err == nil {
				if user, err := m.users.ByID(c.Request.Context(), userID); err == nil {
					return user
				}
			}
		}
	}

	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		return nil
	}
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
		tokenString = tokenString[7:]
	}
	userID, err := auth.ParseToken(tokenString, m.jwtSecret)
	if err != nil {
		return nil
	}
	user, err := m.users.ByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}
