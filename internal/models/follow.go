package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow represents a directed follow relationship between two users.
// The composite primary key makes the (follower, followee) pair unique,
// so a duplicate follow is rejected by the database rather than checked
// for in application code.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
}
