package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chirpnet/backend/internal/store"
)

// InvalidPasswordMessage is returned when the re-entered password on a
// profile edit does not match.
const InvalidPasswordMessage = "Invalid password"

type UpdateProfileRequest struct {
	Username       string `form:"username" json:"username" binding:"required,max=50"`
	Email          string `form:"email" json:"email" binding:"required,email"`
	ImageURL       string `form:"image_url" json:"imageUrl" binding:"omitempty,max=255"`
	HeaderImageURL string `form:"header_image_url" json:"headerImageUrl" binding:"omitempty,max=255"`
	Bio            string `form:"bio" json:"bio"`
	Location       string `form:"location" json:"location" binding:"omitempty,max=100"`
	Password       string `form:"password" json:"password" binding:"required"`
}

// ListUsers lists all users, optionally filtered by the q query param.
func (h *handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, convertToUserResponses(users))
}

// ShowUser shows a user's profile together with their messages. The
// profile card is cached in Redis.
func (h *handler) ShowUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	profile, ok := h.cachedProfile(userID)
	if !ok {
		user, err := h.users.ByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		profile = convertToUserResponse(user)
		h.cacheProfile(profile)
	}

	messages, err := h.messages.ByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     profile,
		"messages": convertToMessageResponses(messages),
	})
}

// ShowFollowing lists the users the given user follows.
func (h *handler) ShowFollowing(c *gin.Context) {
	userID, ok := h.pathUser(c)
	if !ok {
		return
	}
	following, err := h.follows.Following(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}
	c.JSON(http.StatusOK, convertToUserResponses(following))
}

// ShowFollowers lists the users following the given user.
func (h *handler) ShowFollowers(c *gin.Context) {
	userID, ok := h.pathUser(c)
	if !ok {
		return
	}
	followers, err := h.follows.Followers(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}
	c.JSON(http.StatusOK, convertToUserResponses(followers))
}

// FollowUser adds a follow edge from the current user to the target and
// redirects to the current user's following page. Following someone
// twice is treated as already done rather than an error.
func (h *handler) FollowUser(c *gin.Context) {
	user := currentUser(c)
	targetID, ok := h.pathUser(c)
	if !ok {
		return
	}
	if targetID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	if err := h.follows.Follow(c.Request.Context(), user.ID, targetID); err != nil && !errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%s/following", user.ID))
}

// UnfollowUser removes the follow edge if present; removing a missing
// edge is a no-op.
func (h *handler) UnfollowUser(c *gin.Context) {
	user := currentUser(c)
	targetID, ok := h.pathUser(c)
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), user.ID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%s/following", user.ID))
}

// GetProfile returns the current user's own profile for the edit form.
func (h *handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, convertToUserResponse(currentUser(c)))
}

// UpdateProfile applies profile changes after the current password is
// re-entered. A wrong password leaves the profile untouched.
func (h *handler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	changes := store.ProfileChanges{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	}
	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, changes, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": InvalidPasswordMessage})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": ConflictMessage})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	h.invalidateProfile(user.ID)
	c.JSON(http.StatusOK, convertToUserResponse(updated))
}

// DeleteAccount removes the current user with all owned messages and
// follow edges, then clears the session.
func (h *handler) DeleteAccount(c *gin.Context) {
	user := currentUser(c)

	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	h.invalidateProfile(user.ID)
	if err := h.clearSession(c, "Your account has been deleted."); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// pathUser parses the :id path param and confirms the user exists.
func (h *handler) pathUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}
	if _, err := h.users.ByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return uuid.Nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return uuid.Nil, false
	}
	return userID, true
}

func profileCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:profile", userID)
}

func (h *handler) cachedProfile(userID uuid.UUID) (UserResponse, bool) {
	if h.redisClient == nil { // Use cache only if Redis is initialized
		return UserResponse{}, false
	}
	ctx := context.Background()
	cached, err := h.redisClient.Get(ctx, profileCacheKey(userID)).Result()
	if err != nil {
		return UserResponse{}, false
	}
	var profile UserResponse
	if err := json.Unmarshal([]byte(cached), &profile); err != nil {
		return UserResponse{}, false
	}
	return profile, true
}

func (h *handler) cacheProfile(profile UserResponse) {
	if h.redisClient == nil {
		return
	}
	ctx := context.Background()
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := h.redisClient.Set(ctx, profileCacheKey(profile.ID), profileJSON, time.Hour*24).Err(); err != nil {
		log.Printf("Failed to cache profile: %v", err)
	}
}

func (h *handler) invalidateProfile(userID uuid.UUID) {
	if h.redisClient == nil {
		return
	}
	if err := h.redisClient.Del(context.Background(), profileCacheKey(userID)).Err(); err != nil {
		log.Printf("Failed to invalidate cached profile: %v", err)
	}
}
