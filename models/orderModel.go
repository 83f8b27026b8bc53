package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s belongs to the order status domain.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                    uint              `json:"id" gorm:"primaryKey"`
	BuyerID               uint              `json:"buyerId" gorm:"index;not null"`
	TotalAmount           decimal.Decimal   `json:"totalAmount" gorm:"type:decimal(12,2)"`
	ShippingAddress       string            `json:"shippingAddress" gorm:"type:text"`
	BillingAddress        string            `json:"billingAddress" gorm:"type:text"`
	PaymentMethod         string            `json:"paymentMethod" gorm:"size:32"`
	Status                OrderStatus       `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminApprovalRequired bool              `json:"adminApprovalRequired" gorm:"index"`
	CancellationReason    *string           `json:"cancellationReason"`
	CancelledAt           *time.Time        `json:"cancelledAt"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
	Items                 []OrderItem       `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TrackingHistory       []TrackingHistory `json:"trackingHistory,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem keeps the product name and unit price as they were at checkout.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"orderId" gorm:"index"`
	ProductID   uint            `json:"productId" gorm:"index"`
	SellerID    uint            `json:"sellerId" gorm:"index"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2)"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type TrackingHistory struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderID     uint        `json:"orderId" gorm:"index"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20)"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (TrackingHistory) TableName() string {
	return "tracking_history"
}

type OrderItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderInput places an order from Items, or from the buyer's cart when Items is empty.
type PlaceOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"omitempty,dive"`
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
	BillingAddress  string           `json:"billingAddress"`
	PaymentMethod   string           `json:"paymentMethod" binding:"required"`
}
