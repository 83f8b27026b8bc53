package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	DB     *gorm.DB
	Relay  relay.Publisher
	Policy CancellationPolicy
	Now    func() time.Time
}

func NewOrderService(db *gorm.DB, publisher relay.Publisher, policy CancellationPolicy) *OrderService {
	return &OrderService{DB: db, Relay: publisher, Policy: policy, Now: time.Now}
}

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status models.OrderStatus
	Page   int
	Limit  int
	Sort   string
}

func (f OrderFilter) normalized() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 15
	}
	if f.Sort != "asc" {
		f.Sort = "desc"
	}
	return f
}

// orderEvent is the relay payload for order notifications.
type orderEvent struct {
	OrderID               uint               `json:"orderId"`
	Status                models.OrderStatus `json:"status"`
	AdminApprovalRequired bool               `json:"adminApprovalRequired"`
	CancellationReason    *string            `json:"cancellationReason,omitempty"`
	Description           string             `json:"description,omitempty"`
}

// PlaceOrder snapshots product prices, reserves stock and records the first
// tracking entry. With no explicit items the buyer's cart is used and emptied.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID uint, in models.PlaceOrderInput) (*models.Order, error) {
	var order models.Order

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := in.Items
		var cart models.Cart
		fromCart := len(items) == 0
		if fromCart {
			if err := tx.Preload("Items").Where("user_id = ?", buyerID).First(&cart).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEmptyOrder
				}
				return err
			}
			for _, ci := range cart.Items {
				items = append(items, models.OrderItemInput{ProductID: ci.ProductID, Quantity: ci.Quantity})
			}
		}

		quantities := mergeQuantities(items)
		if len(quantities) == 0 {
			return ErrEmptyOrder
		}

		productIDs := make([]uint, 0, len(quantities))
		for id := range quantities {
			productIDs = append(productIDs, id)
		}
		sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(productIDs))
		for _, productID := range productIDs {
			qty := quantities[productID]
			if qty <= 0 {
				return fmt.Errorf("%w: quantity for product %d must be positive", ErrInvalidInput, productID)
			}
			var product models.Product
			if err := tx.First(&product, productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d does not exist", ErrInvalidInput, productID)
				}
				return err
			}
			if err := adjustStock(tx, productID, -qty); err != nil {
				return err
			}
			line := models.OrderItem{
				ProductID:   product.ID,
				SellerID:    product.SellerID,
				ProductName: product.Name,
				Quantity:    qty,
				UnitPrice:   product.Price,
			}
			total = total.Add(line.Subtotal())
			lines = append(lines, line)
		}

		now := s.now()
		order = models.Order{
			BuyerID:         buyerID,
			TotalAmount:     total,
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  in.BillingAddress,
			PaymentMethod:   in.PaymentMethod,
			Status:          models.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
			Items:           lines,
		}
		if order.BillingAddress == "" {
			order.BillingAddress = order.ShippingAddress
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		entry := models.TrackingHistory{
			OrderID:     order.ID,
			Status:      models.OrderStatusPending,
			Description: "Order placed",
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		order.TrackingHistory = []models.TrackingHistory{entry}

		if fromCart {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &order, relay.EventOrderPlaced, "Order placed")
	return &order, nil
}

func mergeQuantities(items []models.OrderItemInput) map[uint]int {
	out := make(map[uint]int, len(items))
	for _, it := range items {
		out[it.ProductID] += it.Quantity
	}
	return out
}

// adjustStock adds delta to a product's stock, including products a seller has
// since deleted. A negative delta fails with ErrInsufficientStock instead of
// driving stock below zero.
func adjustStock(tx *gorm.DB, productID uint, delta int) error {
	q := tx.Unscoped().Model(&models.Product{}).Where("id = ?", productID)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	result := q.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 && delta < 0 {
		return fmt.Errorf("%w for product %d", ErrInsufficientStock, productID)
	}
	return nil
}

func (s *OrderService) load(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Preload("Items").
		Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID uint, actor Actor) (*models.Order, error) {
	order, err := s.load(s.DB.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(order) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) Tracking(ctx context.Context, orderID uint, actor Actor) ([]models.TrackingHistory, error) {
	order, err := s.Get(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	return order.TrackingHistory, nil
}

// List returns the actor's own orders, or every order for an admin.
func (s *OrderService) List(ctx context.Context, actor Actor, filter OrderFilter) ([]models.Order, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Order{})
	if !actor.IsAdmin() {
		query = query.Where("buyer_id = ?", actor.ID)
	}
	return s.page(query, filter)
}

// ListForSeller returns orders that contain at least one of the seller's products.
func (s *OrderService) ListForSeller(ctx context.Context, sellerID uint, filter OrderFilter) ([]models.Order, int64, error) {
	sub := s.DB.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)
	query := s.DB.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", sub)
	return s.page(query, filter)
}

// PendingCancellations lists orders waiting for a cancellation decision, oldest first.
func (s *OrderService) PendingCancellations(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).Preload("Items").
		Where("admin_approval_required = ?", true).
		Order("cancelled_at ASC").
		Find(&orders).Error
	return orders, err
}

func (s *OrderService) page(query *gorm.DB, filter OrderFilter) ([]models.Order, int64, error) {
	filter = filter.normalized()
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at " + filter.Sort).
		Order("id " + filter.Sort).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID uint, actor Actor, reason string) (*models.Order, error) {
	order, t, err := s.apply(ctx, orderID, func(order *models.Order) (Transition, error) {
		return CancelOrder(order, reason, actor, s.Policy, s.now())
	})
	if err != nil {
		return nil, err
	}
	event := relay.EventOrderStatusChanged
	if order.AdminApprovalRequired {
		event = relay.EventCancellationRequested
	}
	s.notify(ctx, order, event, t.Entry.Description)
	return order, nil
}

func (s *OrderService) ResolveCancellation(ctx context.Context, orderID uint, actor Actor, approved bool) (*models.Order, error) {
	order, t, err := s.apply(ctx, orderID, func(order *models.Order) (Transition, error) {
		return ResolveCancellation(order, approved, actor, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, order, relay.EventCancellationResolved, t.Entry.Description)
	return order, nil
}

func (s *OrderService) SetStatus(ctx context.Context, orderID uint, actor Actor, status models.OrderStatus) (*models.Order, error) {
	order, t, err := s.apply(ctx, orderID, func(order *models.Order) (Transition, error) {
		return SetOrderStatus(order, status, actor, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, order, relay.EventOrderStatusChanged, t.Entry.Description)
	return order, nil
}

// apply loads the order, runs a gate function and persists the order, its
// tracking entry and any stock movement in one transaction. A rejected
// transition writes nothing.
func (s *OrderService) apply(ctx context.Context, orderID uint, gate func(*models.Order) (Transition, error)) (*models.Order, Transition, error) {
	var (
		order      *models.Order
		transition Transition
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.load(tx, orderID)
		if err != nil {
			return err
		}
		transition, err = gate(order)
		if err != nil {
			return err
		}

		order.UpdatedAt = s.now()
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}
		if err := tx.Create(&transition.Entry).Error; err != nil {
			return err
		}
		order.TrackingHistory = append(order.TrackingHistory, transition.Entry)

		return s.moveStock(tx, order, transition)
	})
	if err != nil {
		return nil, Transition{}, err
	}
	return order, transition, nil
}

// moveStock returns stock when an order enters cancelled and takes it again
// when an order is revived from cancelled.
func (s *OrderService) moveStock(tx *gorm.DB, order *models.Order, t Transition) error {
	var sign int
	switch {
	case t.To == models.OrderStatusCancelled && t.From != models.OrderStatusCancelled:
		sign = 1
	case t.From == models.OrderStatusCancelled && t.To != models.OrderStatusCancelled:
		sign = -1
	default:
		return nil
	}
	for _, item := range order.Items {
		if err := adjustStock(tx, item.ProductID, sign*item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// notify publishes to the buyer and every seller of the order. Relay failures
// are logged and otherwise ignored.
func (s *OrderService) notify(ctx context.Context, order *models.Order, name, description string) {
	if s.Relay == nil {
		return
	}
	payload := orderEvent{
		OrderID:               order.ID,
		Status:                order.Status,
		AdminApprovalRequired: order.AdminApprovalRequired,
		CancellationReason:    order.CancellationReason,
		Description:           description,
	}
	for _, userID := range recipients(order) {
		if err := s.Relay.Publish(ctx, relay.UserChannel(userID), name, payload); err != nil {
			zap.L().Warn("relay publish failed",
				zap.String("event", name),
				zap.Uint("orderId", order.ID),
				zap.Uint("userId", userID),
				zap.Error(err),
			)
		}
	}
}

func recipients(order *models.Order) []uint {
	seen := map[uint]bool{order.BuyerID: true}
	out := []uint{order.BuyerID}
	for _, item := range order.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			out = append(out, item.SellerID)
		}
	}
	return out
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
