package workflow

import "github.com/example/dawaa/internal/models"

// RequiresPrescription reports whether any line item of the order
// carries at least one prescription image reference.
func RequiresPrescription(order *models.Order) bool {
	for _, item := range order.Items {
		if len(item.PrescriptionImages) > 0 {
			return true
		}
	}
	return false
}

// CanAcceptOrder reports whether the order may move out of pending.
// An order that needs a prescription is blocked until a reviewer has
// verified it; nil (not yet reviewed) and false (rejected) both block.
func CanAcceptOrder(order *models.Order) bool {
	required := order.PrescriptionRequired || RequiresPrescription(order)
	if !required {
		return true
	}
	return order.PrescriptionVerified != nil && *order.PrescriptionVerified
}
