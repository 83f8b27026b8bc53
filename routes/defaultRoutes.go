package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/healthz", controllers.Healthz)
	server.GET("/events", middlewares.RequireAuth(), controllers.StreamEvents)
}
