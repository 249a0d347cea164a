package repositories

import (
	"github.com/rasel97/snapthread/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow and follow-request operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowingIDs(followerID uint) ([]uint, error)
	GetFollowerIDs(followingID uint) ([]uint, error)

	CreateFollowRequest(request *models.FollowRequest) error
	GetFollowRequestByID(id uint) (*models.FollowRequest, error)
	GetPendingRequest(senderID, receiverID uint) (*models.FollowRequest, error)
	GetPendingRequestsForUser(receiverID uint) ([]models.FollowRequest, error)
	UpdateFollowRequest(request *models.FollowRequest) error
}

type postgresFollowRepository struct {
	db *gorm.DB
}

func NewPostgresFollowRepository(db *gorm.DB) FollowRepository {
	return &postgresFollowRepository{db: db}
}

func (r *postgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *postgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

func (r *postgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *postgresFollowRepository) GetFollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *postgresFollowRepository) GetFollowerIDs(followingID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", followingID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *postgresFollowRepository) CreateFollowRequest(request *models.FollowRequest) error {
	return r.db.Create(request).Error
}

func (r *postgresFollowRepository) GetFollowRequestByID(id uint) (*models.FollowRequest, error) {
	var request models.FollowRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *postgresFollowRepository) GetPendingRequest(senderID, receiverID uint) (*models.FollowRequest, error) {
	var request models.FollowRequest
	err := r.db.Where("sender_id = ? AND receiver_id = ? AND status = ?",
		senderID, receiverID, models.FollowRequestPending).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *postgresFollowRepository) GetPendingRequestsForUser(receiverID uint) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.Where("receiver_id = ? AND status = ?", receiverID, models.FollowRequestPending).
		Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *postgresFollowRepository) UpdateFollowRequest(request *models.FollowRequest) error {
	return r.db.Save(request).Error
}
