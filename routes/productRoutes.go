package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/products", controllers.GetProducts)
	server.GET("/products/:id", controllers.GetProduct)

	manage := server.Group("/products", middlewares.RequireAuth(), middlewares.RequireRole(models.RoleSeller, models.RoleAdmin))
	manage.POST("", controllers.CreateProduct)
	manage.PUT("/:id", controllers.UpdateProduct)
	manage.DELETE("/:id", controllers.DeleteProduct)
	manage.POST("/:id/images", controllers.UploadProductImages)
}
