package models

import "time"

const (
	OTPPurposeVerifyEmail   = "verify_email"
	OTPPurposeResetPassword = "reset_password"
)

// OTP holds one outstanding code per (email, purpose). CodeHash is a bcrypt hash.
type OTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:191;uniqueIndex:idx_otp_email_purpose"`
	Purpose   string    `json:"purpose" gorm:"size:32;uniqueIndex:idx_otp_email_purpose"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OTPSendInput struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=verify_email reset_password"`
}

type OTPVerifyInput struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"omitempty,oneof=verify_email reset_password"`
	Code    string `json:"code" binding:"required"`
}

type ResetPasswordInput struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
