package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/models"
)

// FollowStore owns the collection of directed follow edges.
type FollowStore struct {
	db *gorm.DB
}

func NewFollowStore(db *gorm.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Follow inserts the edge follower -> followee. A duplicate insert is
// rejected by the composite primary key and surfaces as ErrConflict; the
// store does not silently absorb it.
func (s *FollowStore) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Unfollow removes the matching edge. Removing an edge that does not
// exist is a no-op, not an error.
func (s *FollowStore) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether a follows b.
func (s *FollowStore) IsFollowing(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFollowedBy reports whether b follows a.
func (s *FollowStore) IsFollowedBy(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.IsFollowing(ctx, b, a)
}

// Following returns the users that userID follows. Order is unspecified.
func (s *FollowStore) Following(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Followers returns the users that follow userID. Order is unspecified.
func (s *FollowStore) Followers(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
