package models

import "time"

// HashtagFollow represents a user following a hashtag (PostgreSQL)
type HashtagFollow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_hashtag"`
	Hashtag   string    `json:"hashtag" gorm:"size:100;index;uniqueIndex:idx_user_hashtag"` // Stored without the leading #
	CreatedAt time.Time `json:"created_at"`
}
