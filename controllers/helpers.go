package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgUnauthorized        = "User not found in context"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrOTPNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrOTPAttemptsExceeded), errors.Is(err, services.ErrOTPRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrApprovalPending),
		errors.Is(err, services.ErrNoPendingApproval),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrOTPInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondWithServiceError maps a domain error to its HTTP status. Unknown
// errors are logged and answered with fallback.
func respondWithServiceError(ctx *gin.Context, err error, fallback string) {
	status := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error(fallback, zap.String("path", ctx.FullPath()), zap.Error(err))
		respondWithError(ctx, status, fallback, nil)
		return
	}
	sendErrorResponse(ctx, status, err.Error())
}

// currentActor reads the JWT claims set by RequireAuth. It answers 401 itself
// when they are missing.
func currentActor(ctx *gin.Context) (services.Actor, bool) {
	value, exists := ctx.Get("user")
	claims, ok := value.(jwt.MapClaims)
	if !exists || !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUnauthorized)
		return services.Actor{}, false
	}
	id, _ := claims["user_id"].(float64)
	role, _ := claims["role"].(string)
	if id <= 0 {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgUnauthorized)
		return services.Actor{}, false
	}
	return services.Actor{ID: uint(id), Role: role}, true
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondWithError(ctx, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

func pageParams(ctx *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func paginationMetadata(total int64, page, limit int) gin.H {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	hasPrevPage := page > 1
	hasNextPage := page < totalPages

	var previousPage, nextPage *int
	if hasPrevPage {
		p := page - 1
		previousPage = &p
	}
	if hasNextPage {
		n := page + 1
		nextPage = &n
	}

	return gin.H{
		"total":        total,
		"currentPage":  page,
		"limit":        limit,
		"hasPrevPage":  hasPrevPage,
		"hasNextPage":  hasNextPage,
		"previousPage": previousPage,
		"nextPage":     nextPage,
	}
}

func orderService() *services.OrderService {
	policy, err := services.ParseCancellationPolicy(initializers.Config.CancellationPolicy)
	if err != nil {
		policy = services.PolicyImmediate
	}
	return services.NewOrderService(initializers.DB, initializers.Relay, policy)
}

func otpService() *services.OTPService {
	cfg := initializers.Config
	return services.NewOTPService(initializers.DB, initializers.Mailer, cfg.OTPTTL, cfg.OTPResendCooldown, cfg.OTPMaxAttempts)
}

func chatService() *services.ChatService {
	return services.NewChatService(initializers.DB, initializers.Relay)
}
