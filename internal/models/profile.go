package models

import (
	"time"
)

// Profile carries the optional bio attached to exactly one user.
// The unique index on UserID enforces the one-profile-per-user invariant.
type Profile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
