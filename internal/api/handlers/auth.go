package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chirpnet/backend/internal/auth"
	"github.com/chirpnet/backend/internal/store"
)

const (
	// ConflictMessage deliberately does not reveal which field
	// conflicted, to limit account enumeration.
	ConflictMessage = "Username or Email already taken"
	// InvalidCredentialsMessage covers both unknown-username and
	// wrong-password failures.
	InvalidCredentialsMessage = "Invalid credentials."
	// LogoutFlash is flashed after a successful logout.
	LogoutFlash = "You have been logged out."
)

// Authentication-related request and response structures
type SignupRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=50"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	ImageURL string `form:"image_url" json:"imageUrl" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// Signup handles user registration. Uniqueness of username and email is
// not pre-checked; the store reports the constraint violation from the
// database and the whole attempt rolls back.
func (h *handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Username, req.Email, req.Password, req.ImageURL)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": ConflictMessage})
			return
		}
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process registration"})
		return
	}

	if err := h.loginSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	token, expiresAt, err := auth.GenerateToken(user.ID, h.config.JWTSecret)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      convertToUserResponse(user),
	})
}

// Login handles user login
func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			// Same message for unknown username and wrong password
			// to avoid leaking which usernames exist
			log.Printf("Failed login attempt for user %s from IP %s", req.Username, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": InvalidCredentialsMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process login"})
		return
	}

	if err := h.loginSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	token, expiresAt, err := auth.GenerateToken(user.ID, h.config.JWTSecret)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      convertToUserResponse(user),
	})
}

// Logout clears the session marker and sends the visitor back to the
// landing page.
func (h *handler) Logout(c *gin.Context) {
	if err := h.clearSession(c, LogoutFlash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}
