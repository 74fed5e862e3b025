package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/api/middleware"
	"github.com/chirpnet/backend/internal/config"
	"github.com/chirpnet/backend/internal/models"
	"github.com/chirpnet/backend/internal/store"
)

// handler is the core struct with all dependencies
type handler struct {
	users       *store.UserStore
	follows     *store.FollowStore
	messages    *store.MessageStore
	redisClient *redis.Client
	sessions    *sessions.CookieStore
	config      *config.Config
}

// NewHandler creates a new handler instance
func NewHandler(db *gorm.DB, redisClient *redis.Client, sessionStore *sessions.CookieStore, config *config.Config) *handler {
	return &handler{
		users:       store.NewUserStore(db),
		follows:     store.NewFollowStore(db),
		messages:    store.NewMessageStore(db),
		redisClient: redisClient,
		sessions:    sessionStore,
		config:      config,
	}
}

// UserResponse is a Data Transfer Object for User information
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ImageURL       string    `json:"imageUrl"`
	HeaderImageURL string    `json:"headerImageUrl"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"createdAt"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// convertToUserResponse converts a User model to UserResponse
func convertToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
		CreatedAt:      user.CreatedAt,
	}
}

func convertToUserResponses(users []models.User) []UserResponse {
	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = convertToUserResponse(&users[i])
	}
	return response
}

func convertToMessageResponse(message *models.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Text:      message.Text,
		UserID:    message.UserID,
		Username:  message.User.Username,
		CreatedAt: message.CreatedAt,
	}
}

func convertToMessageResponses(messages []models.Message) []MessageResponse {
	response := make([]MessageResponse, len(messages))
	for i := range messages {
		response[i] = convertToMessageResponse(&messages[i])
	}
	return response
}

// currentUser returns the user resolved by the auth middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.ContextUserKey).(*models.User)
}

// loginSession writes the authenticated user's id into the cookie
// session under the fixed key.
func (h *handler) loginSession(c *gin.Context, userID uuid.UUID) error {
	session, _ := h.sessions.Get(c.Request, middleware.SessionName)
	session.Values[middleware.CurrUserKey] = userID.String()
	return session.Save(c.Request, c.Writer)
}

// clearSession removes the auth marker, leaving any flashes intact.
func (h *handler) clearSession(c *gin.Context, flash string) error {
	session, _ := h.sessions.Get(c.Request, middleware.SessionName)
	delete(session.Values, middleware.CurrUserKey)
	if flash != "" {
		session.AddFlash(flash)
	}
	return session.Save(c.Request, c.Writer)
}

// takeFlashes drains and returns the pending flash messages.
func (h *handler) takeFlashes(c *gin.Context) []string {
	session, _ := h.sessions.Get(c.Request, middleware.SessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		return nil
	}
	flashes := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			flashes = append(flashes, s)
		}
	}
	return flashes
}

// Home shows the message feed for an authenticated user and a landing
// page for everyone else.
func (h *handler) Home(c *gin.Context) {
	flashes := h.takeFlashes(c)

	userValue, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Sign up or log in to see the feed",
			"flashes": flashes,
		})
		return
	}
	user := userValue.(*models.User)

	feed, err := h.messages.HomeFeed(c.Request.Context(), user.ID, h.config.FeedLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    convertToUserResponse(user),
		"feed":    convertToMessageResponses(feed),
		"flashes": flashes,
	})
}
