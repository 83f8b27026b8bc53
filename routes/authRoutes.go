package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	limit := initializers.Config.RateLimitPerMinute

	auth := server.Group("/auth", middlewares.RateLimit(initializers.Redis, "auth", limit))
	auth.POST("/signup", controllers.Signup)
	auth.POST("/login", controllers.Login)
	auth.POST("/reset-password", controllers.ResetPassword)

	otp := server.Group("/otp", middlewares.RateLimit(initializers.Redis, "otp", limit))
	otp.POST("/send", controllers.SendOTP)
	otp.POST("/verify", controllers.VerifyOTP)

	server.GET("/me", middlewares.RequireAuth(), controllers.GetProfile)
}
