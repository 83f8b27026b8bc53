package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db      *gorm.DB
	relay   *recordingPublisher
	svc     *OrderService
	clock   *clock
	product models.Product
}

func newOrderFixture(t *testing.T, policy CancellationPolicy) *orderFixture {
	db := newTestDB(t)
	pub := &recordingPublisher{}
	c := newClock()
	svc := NewOrderService(db, pub, policy)
	svc.Now = c.Now
	return &orderFixture{
		db:      db,
		relay:   pub,
		svc:     svc,
		clock:   c,
		product: seedProduct(t, db, seller.ID, "Ube Halaya", "12.50", 5),
	}
}

func (f *orderFixture) place(t *testing.T, qty int) *models.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), buyer.ID, models.PlaceOrderInput{
		Items:           []models.OrderItemInput{{ProductID: f.product.ID, Quantity: qty}},
		ShippingAddress: "12 Mabini St, Manila",
		PaymentMethod:   "cod",
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrderSnapshotsPriceAndReservesStock(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)

	order := f.place(t, 2)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("25").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Equal(t, "12 Mabini St, Manila", order.BillingAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, seller.ID, order.Items[0].SellerID)
	assert.Equal(t, "Ube Halaya", order.Items[0].ProductName)
	assert.Equal(t, 3, stockOf(t, f.db, f.product.ID))

	history := historyOf(t, f.db, order.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatusPending, history[0].Status)

	assert.ElementsMatch(t,
		[]string{relay.UserChannel(buyer.ID), relay.UserChannel(seller.ID)},
		f.relay.channels(relay.EventOrderPlaced))

	// Later price changes do not touch the placed order.
	require.NoError(t, f.db.Model(&f.product).Update("price", decimal.RequireFromString("99")).Error)
	stored, err := f.svc.Get(context.Background(), order.ID, buyer)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(stored.Items[0].UnitPrice))
}

func TestPlaceOrderFromCartEmptiesCart(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	cart := models.Cart{UserID: buyer.ID}
	require.NoError(t, f.db.Create(&cart).Error)
	require.NoError(t, f.db.Create(&models.CartItem{CartID: cart.ID, ProductID: f.product.ID, Quantity: 4}).Error)

	order, err := f.svc.PlaceOrder(context.Background(), buyer.ID, models.PlaceOrderInput{
		ShippingAddress: "12 Mabini St",
		PaymentMethod:   "gcash",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.Equal(t, 1, stockOf(t, f.db, f.product.ID))

	var remaining int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestPlaceOrderFailures(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, buyer.ID, models.PlaceOrderInput{ShippingAddress: "x", PaymentMethod: "cod"})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = f.svc.PlaceOrder(ctx, buyer.ID, models.PlaceOrderInput{
		Items:           []models.OrderItemInput{{ProductID: f.product.ID, Quantity: 6}},
		ShippingAddress: "x",
		PaymentMethod:   "cod",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.svc.PlaceOrder(ctx, buyer.ID, models.PlaceOrderInput{
		Items:           []models.OrderItemInput{{ProductID: 999, Quantity: 1}},
		ShippingAddress: "x",
		PaymentMethod:   "cod",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	assert.Equal(t, 5, stockOf(t, f.db, f.product.ID))
}

func TestPlaceOrderSurvivesRelayFailure(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	f.relay.err = errRelayDown

	order := f.place(t, 1)
	assert.NotZero(t, order.ID)
}

func TestCancelPendingOrderImmediately(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	order := f.place(t, 2)

	cancelled, err := f.svc.Cancel(context.Background(), order.ID, buyer, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	history := historyOf(t, f.db, order.ID)
	require.Len(t, history, 2)
	assert.Equal(t, models.OrderStatusCancelled, history[1].Status)
	assert.Equal(t, 5, stockOf(t, f.db, f.product.ID), "stock is returned")
	assert.Len(t, f.relay.channels(relay.EventOrderStatusChanged), 2)
}

func TestCancelShippedOrderChangesNothing(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	order := f.place(t, 1)
	_, err := f.svc.SetStatus(context.Background(), order.ID, admin, models.OrderStatusShipped)
	require.NoError(t, err)
	before := historyOf(t, f.db, order.ID)

	_, err = f.svc.Cancel(context.Background(), order.ID, buyer, "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.svc.Get(context.Background(), order.ID, buyer)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)
	assert.Nil(t, stored.CancellationReason)
	assert.Len(t, historyOf(t, f.db, order.ID), len(before))
	assert.Equal(t, 4, stockOf(t, f.db, f.product.ID))
}

func TestCancellationApprovalFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		f := newOrderFixture(t, PolicyApproval)
		order := f.place(t, 2)

		requested, err := f.svc.Cancel(ctx, order.ID, buyer, "found it cheaper")
		require.NoError(t, err)
		assert.True(t, requested.AdminApprovalRequired)
		assert.Equal(t, models.OrderStatusPending, requested.Status)
		assert.Equal(t, 3, stockOf(t, f.db, f.product.ID))
		assert.Len(t, f.relay.channels(relay.EventCancellationRequested), 2)

		pending, err := f.svc.PendingCancellations(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		_, err = f.svc.SetStatus(ctx, order.ID, admin, models.OrderStatusShipped)
		assert.ErrorIs(t, err, ErrApprovalPending)

		approved, err := f.svc.ResolveCancellation(ctx, order.ID, seller, true)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, approved.Status)
		assert.False(t, approved.AdminApprovalRequired)
		assert.Equal(t, 5, stockOf(t, f.db, f.product.ID))

		history := historyOf(t, f.db, order.ID)
		require.Len(t, history, 3)
		assert.Equal(t, models.OrderStatusPending, history[1].Status)
		assert.Equal(t, models.OrderStatusCancelled, history[2].Status)
	})

	t.Run("reject", func(t *testing.T) {
		f := newOrderFixture(t, PolicyApproval)
		order := f.place(t, 1)
		_, err := f.svc.Cancel(ctx, order.ID, buyer, "hmm")
		require.NoError(t, err)

		rejected, err := f.svc.ResolveCancellation(ctx, order.ID, admin, false)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPending, rejected.Status)
		assert.False(t, rejected.AdminApprovalRequired)
		assert.Nil(t, rejected.CancellationReason)
		assert.Nil(t, rejected.CancelledAt)
		assert.Equal(t, 4, stockOf(t, f.db, f.product.ID))

		_, err = f.svc.ResolveCancellation(ctx, order.ID, admin, true)
		assert.ErrorIs(t, err, ErrNoPendingApproval)
	})

	t.Run("outsider seller", func(t *testing.T) {
		f := newOrderFixture(t, PolicyApproval)
		order := f.place(t, 1)
		_, err := f.svc.Cancel(ctx, order.ID, buyer, "hmm")
		require.NoError(t, err)

		_, err = f.svc.ResolveCancellation(ctx, order.ID, outsider, true)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRevivingCancelledOrderTakesStockAgain(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	order := f.place(t, 2)
	_, err := f.svc.Cancel(context.Background(), order.ID, admin, "duplicate")
	require.NoError(t, err)
	require.Equal(t, 5, stockOf(t, f.db, f.product.ID))

	revived, err := f.svc.SetStatus(context.Background(), order.ID, admin, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Nil(t, revived.CancelledAt)
	assert.Equal(t, 3, stockOf(t, f.db, f.product.ID))
}

func TestCancelAfterProductDeleted(t *testing.T) {
	ctx := context.Background()
	deletedStock := func(t *testing.T, f *orderFixture) int {
		t.Helper()
		var p models.Product
		require.NoError(t, f.db.Unscoped().First(&p, f.product.ID).Error)
		return p.Stock
	}

	t.Run("immediate", func(t *testing.T) {
		f := newOrderFixture(t, PolicyImmediate)
		order := f.place(t, 2)
		require.NoError(t, f.db.Delete(&models.Product{}, f.product.ID).Error)

		cancelled, err := f.svc.Cancel(ctx, order.ID, buyer, "changed my mind")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
		assert.Len(t, historyOf(t, f.db, order.ID), 2)
		assert.Equal(t, 5, deletedStock(t, f))
	})

	t.Run("approved", func(t *testing.T) {
		f := newOrderFixture(t, PolicyApproval)
		order := f.place(t, 1)
		_, err := f.svc.Cancel(ctx, order.ID, buyer, "changed my mind")
		require.NoError(t, err)
		require.NoError(t, f.db.Delete(&models.Product{}, f.product.ID).Error)

		approved, err := f.svc.ResolveCancellation(ctx, order.ID, admin, true)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, approved.Status)
		assert.False(t, approved.AdminApprovalRequired)
		assert.Equal(t, 5, deletedStock(t, f))
	})

	t.Run("product row gone", func(t *testing.T) {
		f := newOrderFixture(t, PolicyImmediate)
		order := f.place(t, 1)
		require.NoError(t, f.db.Unscoped().Delete(&models.Product{}, f.product.ID).Error)

		cancelled, err := f.svc.Cancel(ctx, order.ID, buyer, "changed my mind")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	})
}

func TestOrderVisibility(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	order := f.place(t, 1)
	ctx := context.Background()

	for _, actor := range []Actor{buyer, seller, admin} {
		_, err := f.svc.Get(ctx, order.ID, actor)
		assert.NoError(t, err)
	}
	for _, actor := range []Actor{stranger, outsider} {
		_, err := f.svc.Tracking(ctx, order.ID, actor)
		assert.ErrorIs(t, err, ErrForbidden)
	}
	_, err := f.svc.Get(ctx, 999, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture(t, PolicyImmediate)
	ctx := context.Background()
	first := f.place(t, 1)
	f.clock.Advance(time.Minute)
	second := f.place(t, 1)
	_, err := f.svc.Cancel(ctx, first.ID, buyer, "nope")
	require.NoError(t, err)

	orders, total, err := f.svc.List(ctx, buyer, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	orders, total, err = f.svc.List(ctx, buyer, OrderFilter{Status: models.OrderStatusCancelled})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, first.ID, orders[0].ID)

	_, total, err = f.svc.List(ctx, stranger, OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = f.svc.List(ctx, admin, OrderFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	orders, total, err = f.svc.ListForSeller(ctx, seller.ID, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	_, total, err = f.svc.ListForSeller(ctx, outsider.ID, OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = f.svc.List(ctx, buyer, OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
