package models

import (
	"time"
)

// User is an account that can author posts and own a profile.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name      *string   `gorm:"size:255" json:"name,omitempty"`

	Posts   []Post   `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}
