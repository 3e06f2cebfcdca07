package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the DevMate feed. Posts are plain text with an
// optional code snippet attached.
type Post struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Content      string `gorm:"type:text;not null" json:"content"`
	CodeSnippet  string `gorm:"type:text" json:"code_snippet,omitempty"`
	CodeLanguage string `json:"code_language,omitempty"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
