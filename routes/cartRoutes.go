package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	cart.GET("", controllers.GetCart)
	cart.DELETE("", controllers.ClearCart)
	cart.POST("/items", controllers.AddCartItem)
	cart.PATCH("/items/:itemId", controllers.UpdateCartItem)
	cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
}
