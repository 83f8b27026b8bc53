package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/lawlaw-api/models"
)

// CancellationPolicy decides whether a buyer's cancellation is applied
// immediately or escalated for approval.
type CancellationPolicy string

const (
	PolicyImmediate              CancellationPolicy = "immediate"
	PolicyApproval               CancellationPolicy = "approval"
	PolicyApprovalWhenProcessing CancellationPolicy = "approval_when_processing"
)

func ParseCancellationPolicy(s string) (CancellationPolicy, error) {
	switch p := CancellationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyImmediate, nil
	case PolicyImmediate, PolicyApproval, PolicyApprovalWhenProcessing:
		return p, nil
	}
	return "", fmt.Errorf("unknown cancellation policy %q", s)
}

// RequiresApproval reports whether a cancellation by actor of an order in status
// must wait for approval. Admin cancellations never escalate.
func (p CancellationPolicy) RequiresApproval(status models.OrderStatus, actor Actor) bool {
	if actor.IsAdmin() {
		return false
	}
	switch p {
	case PolicyApproval:
		return true
	case PolicyApprovalWhenProcessing:
		return status == models.OrderStatusProcessing
	}
	return false
}

// Transition describes one accepted change to an order. Entry is the tracking
// row to append; its status always equals To.
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Entry models.TrackingHistory
}

// Cancellable reports whether an order in status may still be cancelled.
func Cancellable(status models.OrderStatus) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusProcessing
}

func newTransition(order *models.Order, from models.OrderStatus, description string, now time.Time) Transition {
	return Transition{
		From: from,
		To:   order.Status,
		Entry: models.TrackingHistory{
			OrderID:     order.ID,
			Status:      order.Status,
			Description: description,
			CreatedAt:   now,
		},
	}
}

// CancelOrder applies a cancellation request by the buyer or an admin. The order
// is only mutated when the request is accepted.
func CancelOrder(order *models.Order, reason string, actor Actor, policy CancellationPolicy, now time.Time) (Transition, error) {
	if order.BuyerID != actor.ID && !actor.IsAdmin() {
		return Transition{}, fmt.Errorf("%w: only the buyer or an admin can cancel this order", ErrForbidden)
	}
	if order.AdminApprovalRequired {
		return Transition{}, ErrApprovalPending
	}
	if !Cancellable(order.Status) {
		return Transition{}, fmt.Errorf("%w: cannot cancel an order that is %s", ErrInvalidTransition, order.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	from := order.Status
	order.CancellationReason = &reason
	cancelledAt := now
	order.CancelledAt = &cancelledAt

	if policy.RequiresApproval(order.Status, actor) {
		order.AdminApprovalRequired = true
		return newTransition(order, from, "Cancellation requested: "+reason, now), nil
	}

	order.Status = models.OrderStatusCancelled
	return newTransition(order, from, "Order cancelled: "+reason, now), nil
}

// ResolveCancellation approves or rejects a pending cancellation request.
// A rejection restores the order exactly as it was before the request.
func ResolveCancellation(order *models.Order, approved bool, actor Actor, now time.Time) (Transition, error) {
	if !actor.IsAdmin() && !actor.sellsIn(order) {
		return Transition{}, fmt.Errorf("%w: only an admin or a seller of this order can resolve cancellations", ErrForbidden)
	}
	if !order.AdminApprovalRequired {
		return Transition{}, ErrNoPendingApproval
	}

	from := order.Status
	order.AdminApprovalRequired = false
	if !approved {
		order.CancellationReason = nil
		order.CancelledAt = nil
		return newTransition(order, from, "Cancellation request rejected", now), nil
	}

	order.Status = models.OrderStatusCancelled
	if order.CancelledAt == nil {
		cancelledAt := now
		order.CancelledAt = &cancelledAt
	}
	return newTransition(order, from, "Cancellation approved", now), nil
}

// SetOrderStatus is the back-office override. Any status in the domain is
// accepted except while a cancellation request is pending.
func SetOrderStatus(order *models.Order, status models.OrderStatus, actor Actor, now time.Time) (Transition, error) {
	if !actor.IsAdmin() && !actor.sellsIn(order) {
		return Transition{}, fmt.Errorf("%w: only an admin or a seller of this order can change its status", ErrForbidden)
	}
	if !status.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if order.AdminApprovalRequired {
		return Transition{}, ErrApprovalPending
	}
	if order.Status == status {
		return Transition{}, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, status)
	}

	from := order.Status
	order.Status = status
	switch {
	case status == models.OrderStatusCancelled:
		if order.CancelledAt == nil {
			cancelledAt := now
			order.CancelledAt = &cancelledAt
		}
	case from == models.OrderStatusCancelled:
		order.CancelledAt = nil
		order.CancellationReason = nil
	}
	return newTransition(order, from, fmt.Sprintf("Status changed from %s to %s", from, status), now), nil
}
