package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost = 10

	msgUserAlreadyExists     = "user already exists"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgEmailNotVerified      = "Email not verified, check your email for a verification code."
	msgFailedToGenerateToken = "failed to generate token"
	msgUserCreated           = "User created successfully. Check your email for a verification code."
	msgUserNotFound          = "user with this email does not exist"
	msgUnableToResetPassword = "unable to reset password"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", normalizeEmail(email)).First(&user)
	return user, result.Error
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	email := normalizeEmail(signUpData.Email)
	_, err := findUserByEmail(email)
	if err == nil {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("database error during user check", zap.Error(err))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		zap.L().Error("password hashing error", zap.Error(err))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Fullname: signUpData.Fullname,
		Email:    email,
		Phone:    signUpData.Phone,
		Password: hashedPassword,
		Role:     signUpData.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}

	if result := initializers.DB.Create(&user); result.Error != nil {
		zap.L().Error("user creation error", zap.Error(result.Error))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	// The account exists either way; the user can ask for a new code from /otp/send.
	if err := otpService().Issue(ctx.Request.Context(), user.Email, models.OTPPurposeVerifyEmail, user.Fullname); err != nil {
		zap.L().Warn("error sending verification code", zap.String("email", user.Email), zap.Error(err))
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "user": user})
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if !user.EmailVerified {
		sendErrorResponse(ctx, http.StatusForbidden, msgEmailNotVerified)
		return
	}

	tokenString, err := utils.GenerateJWT(user.ID, user.Email, user.Role, initializers.Config.JWTSecret, initializers.Config.JWTTTL)
	if err != nil {
		zap.L().Error("JWT generation error", zap.Error(err))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString, "user": user})
}

// ResetPassword sets a new password after checking a reset_password code.
func ResetPassword(ctx *gin.Context) {
	var input models.ResetPasswordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	user, err := findUserByEmail(input.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	}

	if err := otpService().Verify(ctx.Request.Context(), user.Email, models.OTPPurposeResetPassword, input.Code); err != nil {
		respondWithServiceError(ctx, err, msgUnableToResetPassword)
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		zap.L().Error("password hashing error", zap.Error(err))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	// A reset code proves control of the mailbox, so it also verifies the email.
	result := initializers.DB.Model(&user).Updates(map[string]any{
		"password":       hashedPassword,
		"email_verified": true,
	})
	if result.Error != nil {
		zap.L().Error("error resetting password", zap.Error(result.Error))
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password reset successful"})
}
