package store

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/models"
)

// MessageStore holds the messages users post.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Create posts a new message for the given user. The text must be
// non-empty and at most models.MaxMessageLength characters.
func (s *MessageStore) Create(ctx context.Context, userID uuid.UUID, text string) (*models.Message, error) {
	if text == "" || utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, ErrInvalid
	}

	message := &models.Message{
		Text:   text,
		UserID: userID,
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageStore) ByID(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := s.db.WithContext(ctx).Preload("User").First(&message, "id = ?", messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// ByUser returns the messages posted by one user, newest first.
func (s *MessageStore) ByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Delete removes a message if ownerID owns it. Deleting someone else's
// message is refused.
func (s *MessageStore) Delete(ctx context.Context, messageID, ownerID uuid.UUID) error {
	message, err := s.ByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != ownerID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", messageID).Error
}

// HomeFeed returns the newest messages posted by the user and by everyone
// the user follows.
func (s *MessageStore) HomeFeed(ctx context.Context, userID uuid.UUID, limit int) ([]models.Message, error) {
	followees := s.db.Model(&models.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", userID)

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followees).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
