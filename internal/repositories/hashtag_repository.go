package repositories

import (
	"github.com/rasel97/snapthread/backend/internal/models"
	"gorm.io/gorm"
)

// HashtagRepository defines the interface for hashtag-follow operations
type HashtagRepository interface {
	FollowHashtag(follow *models.HashtagFollow) error
	UnfollowHashtag(userID uint, hashtag string) error
	IsFollowingHashtag(userID uint, hashtag string) (bool, error)
	GetFollowedHashtags(userID uint) ([]string, error)
}

type postgresHashtagRepository struct {
	db *gorm.DB
}

func NewPostgresHashtagRepository(db *gorm.DB) HashtagRepository {
	return &postgresHashtagRepository{db: db}
}

func (r *postgresHashtagRepository) FollowHashtag(follow *models.HashtagFollow) error {
	return r.db.Create(follow).Error
}

func (r *postgresHashtagRepository) UnfollowHashtag(userID uint, hashtag string) error {
	return r.db.Where("user_id = ? AND hashtag = ?", userID, hashtag).
		Delete(&models.HashtagFollow{}).Error
}

func (r *postgresHashtagRepository) IsFollowingHashtag(userID uint, hashtag string) (bool, error) {
	var count int64
	err := r.db.Model(&models.HashtagFollow{}).
		Where("user_id = ? AND hashtag = ?", userID, hashtag).Count(&count).Error
	return count > 0, err
}

func (r *postgresHashtagRepository) GetFollowedHashtags(userID uint) ([]string, error) {
	var tags []string
	err := r.db.Model(&models.HashtagFollow{}).Where("user_id = ?", userID).
		Pluck("hashtag", &tags).Error
	return tags, err
}
