package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer token and stores its claims under "user".
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}

		claims, err := utils.ParseJWT(strings.TrimSpace(tokenString), initializers.Config.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set("user", claims)
		ctx.Next()
	}
}
