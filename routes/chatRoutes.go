package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
)

func ChatRoutes(server *gin.Engine) {
	conversations := server.Group("/conversations", middlewares.RequireAuth())
	conversations.POST("", middlewares.RequireRole(models.RoleBuyer), controllers.StartConversation)
	conversations.GET("", controllers.GetConversations)
	conversations.GET("/:id/messages", controllers.GetMessages)
	conversations.POST("/:id/messages", controllers.SendMessage)
	conversations.DELETE("/:id/messages/:messageId", controllers.DeleteMessage)
	conversations.DELETE("/:id", controllers.DeleteConversation)
}
