package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chirpnet/backend/internal/models"
	"github.com/chirpnet/backend/internal/store"
)

type CreateMessageRequest struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// CreateMessage posts a new message as the current user.
func (h *handler) CreateMessage(c *gin.Context) {
	user := currentUser(c)

	var req CreateMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	message, err := h.messages.Create(c.Request.Context(), user.ID, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Message text must be 1-%d characters", models.MaxMessageLength),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	message.User = *user
	c.JSON(http.StatusCreated, convertToMessageResponse(message))
}

// ShowMessage shows a single message with its author.
func (h *handler) ShowMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	message, err := h.messages.ByID(c.Request.Context(), messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch message"})
		return
	}
	c.JSON(http.StatusOK, convertToMessageResponse(message))
}

// DeleteMessage removes one of the current user's own messages.
func (h *handler) DeleteMessage(c *gin.Context) {
	user := currentUser(c)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	if err := h.messages.Delete(c.Request.Context(), messageID, user.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		case errors.Is(err, store.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own messages"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
