package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultImageURL is the placeholder profile image for users who
	// sign up without one.
	DefaultImageURL = "/static/images/default-pic.png"
	// DefaultHeaderImageURL is the placeholder profile header image.
	DefaultHeaderImageURL = "/static/images/default-hero.jpg"
)

// User represents the user model
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"uniqueIndex;size:50"`
	Email          string `gorm:"uniqueIndex;size:255"`
	PasswordHash   string
	ImageURL       string `gorm:"size:255"`
	HeaderImageURL string `gorm:"size:255"`
	Bio            string
	Location       string `gorm:"size:100"`
}

// BeforeCreate assigns the surrogate key so inserts work the same on
// Postgres and the SQLite test database.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
