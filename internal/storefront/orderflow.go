package storefront

import "github.com/5w1tchy/oku-storefront/internal/backend"

// NextStage is the manager's one-click progression:
// PENDING→PROCESSING→SHIPPED→(PICKED_UP | DELIVERED).
func NextStage(status backend.OrderStatus, selfPickup bool) (backend.OrderStatus, bool) {
	switch status {
	case backend.StatusPending:
		return backend.StatusProcessing, true
	case backend.StatusProcessing:
		return backend.StatusShipped, true
	case backend.StatusShipped:
		if selfPickup {
			return backend.StatusPickedUp, true
		}
		return backend.StatusDelivered, true
	}
	return "", false
}

func CanConfirmDelivery(o backend.Order) bool {
	return (o.Status == backend.StatusDelivered || o.Status == backend.StatusPickedUp) && !o.Received
}
