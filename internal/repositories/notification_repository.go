package repositories

import (
	"github.com/rasel97/snapthread/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationFilter selects notifications by (recipient, actor, type) and
// optionally by post. An empty PostID leaves the match unscoped to any post.
type NotificationFilter struct {
	RecipientID uint
	ActorID     uint
	Type        string
	PostID      string
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	DeleteOne(filter NotificationFilter) error
	DeleteManyByPost(postID string) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// DeleteOne removes at most one notification matching the filter. A no-op
// when nothing matches.
func (r *postgresNotificationRepository) DeleteOne(filter NotificationFilter) error {
	query := r.db.Where("recipient_id = ? AND actor_id = ? AND type = ?",
		filter.RecipientID, filter.ActorID, filter.Type)
	if filter.PostID != "" {
		query = query.Where("post_id = ?", filter.PostID)
	}

	var notification models.Notification
	if err := query.Order("created_at DESC").First(&notification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return r.db.Delete(&notification).Error
}

// DeleteManyByPost removes every notification referencing the post. Used when
// a post is deleted.
func (r *postgresNotificationRepository) DeleteManyByPost(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}
