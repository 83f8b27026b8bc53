package services

import "github.com/Kariqs/lawlaw-api/models"

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool  { return a.Role == models.RoleAdmin }
func (a Actor) IsSeller() bool { return a.Role == models.RoleSeller }

// sellsIn reports whether the actor is a seller of at least one item of the order.
func (a Actor) sellsIn(order *models.Order) bool {
	if !a.IsSeller() {
		return false
	}
	for _, item := range order.Items {
		if item.SellerID == a.ID {
			return true
		}
	}
	return false
}

// CanView reports whether the actor may read the order.
func (a Actor) CanView(order *models.Order) bool {
	return a.IsAdmin() || order.BuyerID == a.ID || a.sellsIn(order)
}
