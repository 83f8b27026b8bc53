package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
)

func RecipeRoutes(server *gin.Engine) {
	server.GET("/recipes", controllers.GetRecipes)
	server.GET("/recipes/:id", controllers.GetRecipe)

	user := server.Group("/recipes", middlewares.RequireAuth())
	user.GET("/favorites", controllers.GetFavoriteRecipes)
	user.GET("/saved", controllers.GetSavedRecipes)
	user.POST("/:id/favorite", controllers.ToggleFavorite)
	user.PUT("/:id/saved", controllers.SaveRecipe)
	user.DELETE("/:id/saved", controllers.UnsaveRecipe)

	manage := server.Group("/recipes", middlewares.RequireAuth(), middlewares.RequireRole(models.RoleSeller, models.RoleAdmin))
	manage.POST("", controllers.CreateRecipe)
	manage.PUT("/:id", controllers.UpdateRecipe)
	manage.DELETE("/:id", controllers.DeleteRecipe)
}
