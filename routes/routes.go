package routes

import "github.com/gin-gonic/gin"

// Register mounts every route group on server.
func Register(server *gin.Engine) {
	DefaultRoutes(server)
	AuthRoutes(server)
	ProductRoutes(server)
	CartRoutes(server)
	OrderRoutes(server)
	AdminRoutes(server)
	SellerRoutes(server)
	RecipeRoutes(server)
	ChatRoutes(server)
}
