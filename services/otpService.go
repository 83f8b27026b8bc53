package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpDigits = 6

type OTPService struct {
	DB          *gorm.DB
	Mailer      utils.Mailer
	TTL         time.Duration
	Cooldown    time.Duration
	MaxAttempts int
	Now         func() time.Time
}

func NewOTPService(db *gorm.DB, mailer utils.Mailer, ttl, cooldown time.Duration, maxAttempts int) *OTPService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &OTPService{DB: db, Mailer: mailer, TTL: ttl, Cooldown: cooldown, MaxAttempts: maxAttempts, Now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *OTPService) find(ctx context.Context, email, purpose string) (*models.OTP, error) {
	var otp models.OTP
	err := s.DB.WithContext(ctx).Where("email = ? AND purpose = ?", email, purpose).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// Issue replaces any outstanding code for (email, purpose) with a fresh one and
// emails it. A second request inside the cooldown window is refused.
func (s *OTPService) Issue(ctx context.Context, email, purpose, recipientName string) error {
	email = normalizeEmail(email)
	now := s.now()

	existing, err := s.find(ctx, email, purpose)
	if err != nil && !errors.Is(err, ErrOTPNotFound) {
		return err
	}
	if existing != nil && s.Cooldown > 0 && now.Sub(existing.CreatedAt) < s.Cooldown {
		return ErrOTPRateLimited
	}

	code, err := utils.GenerateNumericCode(otpDigits)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	otp := models.OTP{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND purpose = ?", email, purpose).Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	subject, message := otpCopy(purpose)
	data := utils.EmailData{
		Name:             recipientName,
		Message:          message,
		Code:             code,
		ExpiresInMinutes: int(s.TTL / time.Minute),
	}
	if err := s.Mailer.SendEmail(email, subject, data, "otp_email.html"); err != nil {
		// An undeliverable code must not block a retry through the cooldown.
		if delErr := s.DB.WithContext(ctx).Delete(&otp).Error; delErr != nil {
			zap.L().Warn("unable to discard undelivered otp", zap.String("purpose", purpose), zap.Error(delErr))
		}
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func otpCopy(purpose string) (subject, message string) {
	if purpose == models.OTPPurposeResetPassword {
		return "Lawlaw Delights password reset code", "Use the code below to reset your password."
	}
	return "Verify your Lawlaw Delights account", "Use the code below to verify your email address."
}

// Verify checks code against the outstanding OTP. A correct code consumes the
// record. Every check first claims one of MaxAttempts attempts with a
// conditional update; once they are used up the next call deletes the record
// and fails whatever the code.
func (s *OTPService) Verify(ctx context.Context, email, purpose, code string) error {
	email = normalizeEmail(email)
	otp, err := s.find(ctx, email, purpose)
	if err != nil {
		return err
	}
	db := s.DB.WithContext(ctx)

	claim := db.Model(&models.OTP{}).
		Where("id = ? AND attempts < ?", otp.ID, s.MaxAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		if err := db.Delete(&models.OTP{}, otp.ID).Error; err != nil {
			return err
		}
		return ErrOTPAttemptsExceeded
	}

	if s.now().After(otp.ExpiresAt) {
		if err := db.Delete(&models.OTP{}, otp.ID).Error; err != nil {
			return err
		}
		return ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		return ErrOTPInvalid
	}

	consumed := db.Delete(&models.OTP{}, otp.ID)
	if consumed.Error != nil {
		return consumed.Error
	}
	if consumed.RowsAffected == 0 {
		return ErrOTPNotFound
	}
	return nil
}

func (s *OTPService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
