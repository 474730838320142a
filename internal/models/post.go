package models

import (
	"time"
)

// Post belongs to exactly one author. New posts are drafts until published.
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   *string   `gorm:"type:text" json:"content,omitempty"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
