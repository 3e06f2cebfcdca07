package models

import "time"

// Notification types. Every row names the user who triggered it (ActorID) and
// the recipient (UserID); like and comment notifications also reference the
// post.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	Actor     User      `gorm:"foreignKey:ActorID" json:"actor"`
	PostID    *uint     `json:"post_id,omitempty"`
	Read      bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
