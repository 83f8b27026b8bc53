package controllers

import (
	"net/http"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func otpPurpose(purpose string) string {
	if purpose == "" {
		return models.OTPPurposeVerifyEmail
	}
	return purpose
}

func SendOTP(ctx *gin.Context) {
	var input models.OTPSendInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	purpose := otpPurpose(input.Purpose)

	user, err := findUserByEmail(input.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	}
	if purpose == models.OTPPurposeVerifyEmail && user.EmailVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, "email already verified")
		return
	}

	if err := otpService().Issue(ctx.Request.Context(), user.Email, purpose, user.Fullname); err != nil {
		respondWithServiceError(ctx, err, "unable to send verification code")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Verification code sent to " + user.Email})
}

// VerifyOTP confirms an email address. Reset codes are consumed by
// /auth/reset-password instead.
func VerifyOTP(ctx *gin.Context) {
	var input models.OTPVerifyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	purpose := otpPurpose(input.Purpose)
	if purpose != models.OTPPurposeVerifyEmail {
		sendErrorResponse(ctx, http.StatusBadRequest, "reset codes are verified by /auth/reset-password")
		return
	}

	email := normalizeEmail(input.Email)
	if err := otpService().Verify(ctx.Request.Context(), email, purpose, input.Code); err != nil {
		respondWithServiceError(ctx, err, "unable to verify code")
		return
	}

	result := initializers.DB.Model(&models.User{}).Where("email = ?", email).Update("email_verified", true)
	if result.Error != nil {
		zap.L().Error("error marking email verified", zap.String("email", email), zap.Error(result.Error))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Email verified successfully"})
}
