package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/auth"
	"github.com/chirpnet/backend/internal/models"
)

// UserStore is the directory of user accounts. Uniqueness of username and
// email is enforced only by the database's unique indexes: Signup and
// UpdateProfile never pre-check, they translate the constraint violation
// reported at commit time into ErrConflict. This avoids a check-then-act
// race between concurrent signups.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// ProfileChanges carries the fields a user may edit on their own profile.
type ProfileChanges struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// Signup creates a new user with a hashed credential. An empty imageURL
// gets the system placeholder.
func (s *UserStore) Signup(ctx context.Context, username, email, password, imageURL string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Authenticate looks a user up by exact username and verifies the
// password. Unknown username and wrong password are indistinguishable to
// the caller.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpdateProfile applies field changes after re-verifying the current
// password. On a failed re-verification nothing is mutated.
func (s *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, changes ProfileChanges, currentPassword string) (*models.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return nil, ErrInvalidCredentials
	}

	user.Username = changes.Username
	user.Email = changes.Email
	user.Bio = changes.Bio
	user.Location = changes.Location
	if changes.ImageURL != "" {
		user.ImageURL = changes.ImageURL
	} else {
		user.ImageURL = models.DefaultImageURL
	}
	if changes.HeaderImageURL != "" {
		user.HeaderImageURL = changes.HeaderImageURL
	} else {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the user, all messages the user owns, and every follow
// edge the user appears in, in a single transaction.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *UserStore) ByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users, optionally filtered by a username substring.
func (s *UserStore) List(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	db := s.db.WithContext(ctx)
	if query != "" {
		db = db.Where("username LIKE ?", "%"+query+"%")
	}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
