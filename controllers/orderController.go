package controllers

import (
	"net/http"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/services"
	"github.com/gin-gonic/gin"
)

type cancelOrderBody struct {
	Reason string `json:"reason"`
}

type orderStatusBody struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type cancellationDecisionBody struct {
	Approved *bool `json:"approved" binding:"required"`
}

func orderFilter(ctx *gin.Context) services.OrderFilter {
	page, limit := pageParams(ctx, 15)
	return services.OrderFilter{
		Status: models.OrderStatus(ctx.Query("status")),
		Page:   page,
		Limit:  limit,
		Sort:   ctx.DefaultQuery("sort", "desc"),
	}
}

func respondWithOrderPage(ctx *gin.Context, orders []models.Order, total int64, filter services.OrderFilter) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders":   orders,
		"metadata": paginationMetadata(total, filter.Page, filter.Limit),
	})
}

// PlaceOrder creates an order from the request items, or from the cart when none are given.
func PlaceOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var input models.PlaceOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	order, err := orderService().PlaceOrder(ctx.Request.Context(), actor.ID, input)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to place order")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

func GetOrders(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	filter := orderFilter(ctx)
	orders, total, err := orderService().List(ctx.Request.Context(), actor, filter)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch orders")
		return
	}
	respondWithOrderPage(ctx, orders, total, filter)
}

func GetOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	orderId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	order, err := orderService().Get(ctx.Request.Context(), orderId, actor)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch order")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func GetOrderTracking(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	orderId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	history, err := orderService().Tracking(ctx.Request.Context(), orderId, actor)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch tracking history")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"trackingHistory": history})
}

func CancelOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	orderId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var body cancelOrderBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	order, err := orderService().Cancel(ctx.Request.Context(), orderId, actor, body.Reason)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to cancel order")
		return
	}

	message := "Order cancelled"
	if order.AdminApprovalRequired {
		message = "Cancellation request submitted for approval"
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message, "order": order})
}

// UpdateOrderStatus serves both the admin and the seller back office; the
// service checks that a seller owns an item of the order.
func UpdateOrderStatus(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	orderId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var body orderStatusBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	order, err := orderService().SetStatus(ctx.Request.Context(), orderId, actor, body.Status)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to update order status")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func ResolveOrderCancellation(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	orderId, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var body cancellationDecisionBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	order, err := orderService().ResolveCancellation(ctx.Request.Context(), orderId, actor, *body.Approved)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to resolve cancellation")
		return
	}

	message := "Cancellation rejected"
	if *body.Approved {
		message = "Cancellation approved"
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message, "order": order})
}

func GetPendingCancellations(ctx *gin.Context) {
	orders, err := orderService().PendingCancellations(ctx.Request.Context())
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch pending cancellations")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetSellerOrders(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	filter := orderFilter(ctx)
	orders, total, err := orderService().ListForSeller(ctx.Request.Context(), actor.ID, filter)
	if err != nil {
		respondWithServiceError(ctx, err, "Failed to fetch orders")
		return
	}
	respondWithOrderPage(ctx, orders, total, filter)
}
