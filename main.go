package main

import (
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/routes"
	"github.com/Kariqs/lawlaw-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
	initializers.ConnectRedis()
	initializers.ConnectRelay()
	initializers.ConnectStorage()
	initializers.InitMailer()
}

func main() {
	defer zap.L().Sync()

	if _, err := services.ParseCancellationPolicy(initializers.Config.CancellationPolicy); err != nil {
		zap.L().Fatal("invalid configuration", zap.Error(err))
	}
	if initializers.Config.JWTSecret == "" {
		zap.L().Fatal("JWT_SECRET is required")
	}
	defer initializers.Relay.Close()

	if initializers.Config.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     initializers.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server)

	zap.L().Info("starting server", zap.String("port", initializers.Config.Port), zap.String("relay", initializers.Config.RelayDriver))
	if err := server.Run(":" + initializers.Config.Port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
