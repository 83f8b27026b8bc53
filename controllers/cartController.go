package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgFailedToLoadCart = "Unable to load cart"

func findOrCreateCart(userId uint) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", userId).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userId}
		err = initializers.DB.Create(&cart).Error
	}
	return cart, err
}

func cartTotal(cart models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func findCartItem(ctx *gin.Context, userId uint) (models.CartItem, bool) {
	var item models.CartItem
	itemId, ok := paramID(ctx, "itemId")
	if !ok {
		return item, false
	}
	err := initializers.DB.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemId, userId).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch cart item", err)
		}
		return item, false
	}
	return item, true
}

func GetCart(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	cart, err := findOrCreateCart(actor.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return
	}

	result := initializers.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Items.Product.Images").
		First(&cart, cart.ID)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart, "total": cartTotal(cart)})
}

// AddCartItem adds a product to the cart, merging with an existing line for the same product.
func AddCartItem(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var input models.CartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch product", err)
		}
		return
	}

	cart, err := findOrCreateCart(actor.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return
	}

	var existingCartItem models.CartItem
	err = initializers.DB.Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).First(&existingCartItem).Error
	if err == nil {
		existingCartItem.Quantity += input.Quantity
		if err := initializers.DB.Save(&existingCartItem).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Cart item quantity updated",
			"item":    existingCartItem,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch cart item", err)
		return
	}

	cartItem := models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: input.Quantity}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create cart item", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": product.Name + " added to cart",
		"item":    cartItem,
	})
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func UpdateCartItem(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var input struct {
		Quantity *int `json:"quantity" binding:"required,min=0"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	item, ok := findCartItem(ctx, actor.ID)
	if !ok {
		return
	}

	if *input.Quantity == 0 {
		if err := initializers.DB.Delete(&item).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to remove cart item", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
		return
	}

	item.Quantity = *input.Quantity
	if err := initializers.DB.Save(&item).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item quantity updated", "item": item})
}

func RemoveCartItem(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	item, ok := findCartItem(ctx, actor.ID)
	if !ok {
		return
	}
	if err := initializers.DB.Delete(&item).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to remove cart item", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func ClearCart(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	cart, err := findOrCreateCart(actor.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadCart, err)
		return
	}
	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to clear cart", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
