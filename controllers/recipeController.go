package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func findRecipe(ctx *gin.Context) (models.Recipe, bool) {
	var recipe models.Recipe
	recipeId, ok := paramID(ctx, "id")
	if !ok {
		return recipe, false
	}
	if err := initializers.DB.First(&recipe, recipeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Recipe not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve recipe", err)
		}
		return recipe, false
	}
	return recipe, true
}

func canManageRecipe(actor services.Actor, recipe models.Recipe) bool {
	return actor.IsAdmin() || recipe.AuthorID == actor.ID
}

func applyRecipeInput(recipe *models.Recipe, input models.RecipeInput) error {
	ingredients, err := json.Marshal(input.Ingredients)
	if err != nil {
		return err
	}
	steps, err := json.Marshal(input.Steps)
	if err != nil {
		return err
	}
	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Category = input.Category
	recipe.PrepMinutes = input.PrepMinutes
	recipe.Servings = input.Servings
	recipe.Ingredients = datatypes.JSON(ingredients)
	recipe.Steps = datatypes.JSON(steps)
	recipe.ImageUrl = input.ImageUrl
	recipe.ProductID = input.ProductID
	return nil
}

func GetRecipes(ctx *gin.Context) {
	page, limit := pageParams(ctx, 12)
	query := initializers.DB.Model(&models.Recipe{})

	if search := ctx.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch recipes", err)
		return
	}

	var recipes []models.Recipe
	err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&recipes).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch recipes", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"recipes":  recipes,
		"metadata": paginationMetadata(count, page, limit),
	})
}

func GetRecipe(ctx *gin.Context) {
	recipe, ok := findRecipe(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, recipe)
}

func CreateRecipe(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var input models.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	recipe := models.Recipe{AuthorID: actor.ID}
	if err := applyRecipeInput(&recipe, input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := initializers.DB.Create(&recipe).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create recipe", err)
		return
	}

	ctx.JSON(http.StatusCreated, recipe)
}

func UpdateRecipe(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	recipe, ok := findRecipe(ctx)
	if !ok {
		return
	}
	if !canManageRecipe(actor, recipe) {
		respondWithError(ctx, http.StatusForbidden, "You can only edit your own recipes", nil)
		return
	}
	var input models.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := applyRecipeInput(&recipe, input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := initializers.DB.Save(&recipe).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update recipe", err)
		return
	}

	ctx.JSON(http.StatusOK, recipe)
}

func DeleteRecipe(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	recipe, ok := findRecipe(ctx)
	if !ok {
		return
	}
	if !canManageRecipe(actor, recipe) {
		respondWithError(ctx, http.StatusForbidden, "You can only delete your own recipes", nil)
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete recipe", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// ToggleFavorite adds the recipe to the caller's favorites, or removes it if already there.
func ToggleFavorite(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	recipe, ok := findRecipe(ctx)
	if !ok {
		return
	}

	result := initializers.DB.Where("user_id = ? AND recipe_id = ?", actor.ID, recipe.ID).Delete(&models.FavoriteRecipe{})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update favorites", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": "Removed from favorites", "favorited": false})
		return
	}

	favorite := models.FavoriteRecipe{UserID: actor.ID, RecipeID: recipe.ID}
	if err := initializers.DB.Create(&favorite).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update favorites", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Added to favorites", "favorited": true})
}

func GetFavoriteRecipes(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var favorites []models.FavoriteRecipe
	err := initializers.DB.Preload("Recipe").
		Where("user_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch favorites", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// SaveRecipe bookmarks a recipe with notes, replacing the notes if it is already saved.
func SaveRecipe(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	recipe, ok := findRecipe(ctx)
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes" binding:"max=5000"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := time.Now()
	saved := models.SavedRecipe{UserID: actor.ID, RecipeID: recipe.ID, Notes: body.Notes, CreatedAt: now, UpdatedAt: now}
	err := initializers.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notes", "updated_at"}),
	}).Create(&saved).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to save recipe", err)
		return
	}

	var stored models.SavedRecipe
	if err := initializers.DB.Where("user_id = ? AND recipe_id = ?", actor.ID, recipe.ID).First(&stored).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to save recipe", err)
		return
	}
	stored.Recipe = recipe
	ctx.JSON(http.StatusOK, gin.H{"message": "Recipe saved", "saved": stored})
}

func UnsaveRecipe(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	recipeId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	result := initializers.DB.Where("user_id = ? AND recipe_id = ?", actor.ID, recipeId).Delete(&models.SavedRecipe{})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to remove saved recipe", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Recipe is not saved", nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Recipe removed from saved"})
}

func GetSavedRecipes(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var saved []models.SavedRecipe
	err := initializers.DB.Preload("Recipe").
		Where("user_id = ?", actor.ID).
		Order("updated_at DESC").
		Find(&saved).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch saved recipes", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"saved": saved})
}
