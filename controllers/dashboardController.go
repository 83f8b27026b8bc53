package controllers

import (
	"net/http"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type statusCount struct {
	Status models.OrderStatus
	Count  int64
}

func countsByStatus(query *gorm.DB) (map[models.OrderStatus]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[models.OrderStatus]int64{
		models.OrderStatusPending:    0,
		models.OrderStatusProcessing: 0,
		models.OrderStatusShipped:    0,
		models.OrderStatusDelivered:  0,
		models.OrderStatusCancelled:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GetAdminDashboard summarises the store. Revenue excludes cancelled orders.
func GetAdminDashboard(ctx *gin.Context) {
	db := initializers.DB

	ordersByStatus, err := countsByStatus(db.Model(&models.Order{}))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	var users, products, pendingCancellations int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}
	if err := db.Model(&models.Product{}).Count(&products).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}
	if err := db.Model(&models.Order{}).Where("admin_approval_required = ?", true).Count(&pendingCancellations).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	revenue := decimal.Zero
	err = db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&revenue)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"ordersByStatus":       ordersByStatus,
		"pendingCancellations": pendingCancellations,
		"users":                users,
		"products":             products,
		"revenue":              revenue,
	})
}

// GetSellerDashboard counts the seller's products and the orders that contain
// them. Revenue is the seller's share of non-cancelled orders.
func GetSellerDashboard(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	db := initializers.DB

	var products int64
	if err := db.Model(&models.Product{}).Where("seller_id = ?", actor.ID).Count(&products).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	sellerOrders := db.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", actor.ID)
	ordersByStatus, err := countsByStatus(db.Model(&models.Order{}).Where("id IN (?)", sellerOrders))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	revenue := decimal.Zero
	err = db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status <> ?", actor.ID, models.OrderStatusCancelled).
		Select("COALESCE(SUM(order_items.quantity * order_items.unit_price), 0)").
		Row().Scan(&revenue)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to load dashboard", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products":       products,
		"ordersByStatus": ordersByStatus,
		"revenue":        revenue,
	})
}
