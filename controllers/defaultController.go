package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Lawlaw Delights API. Products, recipes, orders and chat in one place.

AUTH
- POST "/auth/signup" - Create account, sends a verification code
- POST "/auth/login" - Access account (email must be verified)
- POST "/auth/reset-password" - Reset password with a reset code
- POST "/otp/send" - Request a verification or reset code
- POST "/otp/verify" - Verify email with a code
- GET "/me" - Current user

PRODUCT
- GET "/products" - List products (search, category, sellerId, page, limit)
- GET "/products/:id" - Get product by ID
- POST "/products" - Create product (seller, admin)
- PUT "/products/:id" - Update product
- DELETE "/products/:id" - Delete product
- POST "/products/:id/images" - Upload product images

CART
- GET "/cart" - Current cart
- POST "/cart/items" - Add item
- PATCH "/cart/items/:itemId" - Set quantity (0 removes)
- DELETE "/cart/items/:itemId" - Remove item
- DELETE "/cart" - Clear cart

ORDER
- POST "/orders" - Place order from items or the cart
- GET "/orders" - List orders (status, page, limit, sort)
- GET "/orders/:id" - Get order by ID
- GET "/orders/:id/tracking" - Tracking history
- POST "/orders/:id/cancel" - Cancel or request cancellation

ADMIN
- PATCH "/admin/orders/:id/status" - Set order status
- POST "/admin/orders/:id/cancellation" - Approve or reject a cancellation
- GET "/admin/orders/pending-cancellations" - Orders awaiting a decision
- GET "/admin/dashboard" - Store summary
- PATCH "/admin/users/:id/role" - Change a user's role

SELLER
- GET "/seller/products" - Own products
- GET "/seller/orders" - Orders with own products
- PATCH "/seller/orders/:id/status" - Set order status
- POST "/seller/orders/:id/cancellation" - Approve or reject a cancellation
- GET "/seller/dashboard" - Seller summary

RECIPE
- GET "/recipes" - List recipes
- GET "/recipes/:id" - Get recipe by ID
- POST "/recipes" - Create recipe (seller, admin)
- PUT "/recipes/:id" - Update recipe
- DELETE "/recipes/:id" - Delete recipe
- POST "/recipes/:id/favorite" - Toggle favorite
- GET "/recipes/favorites" - Favorites
- PUT "/recipes/:id/saved" - Save with notes
- DELETE "/recipes/:id/saved" - Unsave
- GET "/recipes/saved" - Saved recipes

CHAT
- POST "/conversations" - Start or resume a conversation
- GET "/conversations" - Conversations, latest first
- GET "/conversations/:id/messages" - Messages (after, limit)
- POST "/conversations/:id/messages" - Send message
- DELETE "/conversations/:id/messages/:messageId" - Delete own message
- DELETE "/conversations/:id" - Delete conversation
- GET "/events" - Server-sent events for the current user`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func Healthz(ctx *gin.Context) {
	sqlDB, err := initializers.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		respondWithError(ctx, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
