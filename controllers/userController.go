package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var user models.User
	if err := initializers.DB.First(&user, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "user not found")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// UpdateUserRole lets an admin promote or demote an account. Admins cannot change their own role.
func UpdateUserRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role" binding:"required,oneof=buyer seller admin"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if userId == actor.ID {
		sendErrorResponse(ctx, http.StatusBadRequest, "you cannot change your own role")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "user not found")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if err := initializers.DB.Model(&user).Update("role", body.Role).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "unable to update role", err)
		return
	}
	user.Role = body.Role
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Role updated", "user": user})
}

func GetSellerProducts(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := pageParams(ctx, 12)
	respondWithProductPage(ctx, initializers.DB.Model(&models.Product{}).Where("seller_id = ?", actor.ID), page, limit)
}
