package models

import "time"

// EmailOTP holds a pending email verification code (PostgreSQL). One active
// row per email; re-requesting a code replaces it.
type EmailOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Code      string    `json:"-" gorm:"size:6"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// VerifyOTPRequest defines the request body for verifying an emailed code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}
