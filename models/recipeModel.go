package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	AuthorID    uint           `json:"authorId" gorm:"index"`
	Title       string         `json:"title" gorm:"size:191;index"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:64;index"`
	PrepMinutes int            `json:"prepMinutes"`
	Servings    int            `json:"servings"`
	Ingredients datatypes.JSON `json:"ingredients"`
	Steps       datatypes.JSON `json:"steps"`
	ImageUrl    string         `json:"imageUrl"`
	ProductID   *uint          `json:"productId"`
}

type RecipeInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	PrepMinutes int      `json:"prepMinutes" binding:"min=0"`
	Servings    int      `json:"servings" binding:"min=0"`
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
	Steps       []string `json:"steps" binding:"required,min=1"`
	ImageUrl    string   `json:"imageUrl"`
	ProductID   *uint    `json:"productId"`
}

type FavoriteRecipe struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint      `json:"recipeId" gorm:"uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"createdAt"`
	Recipe    Recipe    `json:"recipe" gorm:"foreignKey:RecipeID"`
}

// SavedRecipe is a bookmarked recipe with the user's private notes.
type SavedRecipe struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_saved_user_recipe"`
	RecipeID  uint      `json:"recipeId" gorm:"uniqueIndex:idx_saved_user_recipe"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Recipe    Recipe    `json:"recipe" gorm:"foreignKey:RecipeID"`
}
