package models

import "time"

// Notification types
const (
	NotificationFollow   = "follow"
	NotificationLike     = "like" // comment like
	NotificationComment  = "comment"
	NotificationReaction = "reaction"
	NotificationShare    = "share"
	NotificationMention  = "mention"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // follow, like, comment, reaction, share, mention
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PostID      string    `json:"post_id,omitempty"`    // MongoDB ObjectID as string
	CommentID   string    `json:"comment_id,omitempty"` // Stable comment id, never a position
	MentionedIn string    `json:"mentioned_in,omitempty" gorm:"size:20"` // "comment" or "reply"
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
