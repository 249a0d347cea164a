package repositories

import (
	"github.com/rasel97/snapthread/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPRepository defines the interface for email verification codes
type OTPRepository interface {
	UpsertOTP(otp *models.EmailOTP) error
	GetOTPByEmail(email string) (*models.EmailOTP, error)
	DeleteOTP(email string) error
}

type postgresOTPRepository struct {
	db *gorm.DB
}

func NewPostgresOTPRepository(db *gorm.DB) OTPRepository {
	return &postgresOTPRepository{db: db}
}

// UpsertOTP stores the code for the email, replacing any previous one
func (r *postgresOTPRepository) UpsertOTP(otp *models.EmailOTP) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
	}).Create(otp).Error
}

func (r *postgresOTPRepository) GetOTPByEmail(email string) (*models.EmailOTP, error) {
	var otp models.EmailOTP
	if err := r.db.Where("email = ?", email).First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *postgresOTPRepository) DeleteOTP(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.EmailOTP{}).Error
}
