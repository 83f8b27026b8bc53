package routes

import (
	"github.com/Kariqs/lawlaw-api/controllers"
	"github.com/Kariqs/lawlaw-api/middlewares"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	orders.POST("", controllers.PlaceOrder)
	orders.GET("", controllers.GetOrders)
	orders.GET("/:id", controllers.GetOrder)
	orders.GET("/:id/tracking", controllers.GetOrderTracking)
	orders.POST("/:id/cancel", controllers.CancelOrder)
}

func AdminRoutes(server *gin.Engine) {
	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
	admin.POST("/orders/:id/cancellation", controllers.ResolveOrderCancellation)
	admin.GET("/orders/pending-cancellations", controllers.GetPendingCancellations)
	admin.GET("/dashboard", controllers.GetAdminDashboard)
	admin.PATCH("/users/:id/role", controllers.UpdateUserRole)
}

func SellerRoutes(server *gin.Engine) {
	seller := server.Group("/seller", middlewares.RequireAuth(), middlewares.RequireRole(models.RoleSeller))
	seller.GET("/products", controllers.GetSellerProducts)
	seller.GET("/orders", controllers.GetSellerOrders)
	seller.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
	seller.POST("/orders/:id/cancellation", controllers.ResolveOrderCancellation)
	seller.GET("/dashboard", controllers.GetSellerDashboard)
}
