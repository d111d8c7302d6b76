// Package storefront holds the presentation-tier rules that do not need the
// network: cart totals, pagination windows, form checks, order stages and
// payment reconciliation.
package storefront

import (
	"math"

	"github.com/5w1tchy/oku-storefront/internal/backend"
)

// CartTotal sums (discountPrice ?? price) * quantity over available lines,
// rounded to cents.
func CartTotal(items []backend.CartItem) float64 {
	var sum float64
	for _, it := range items {
		if !it.IsAvailable() {
			continue
		}
		sum += it.UnitPrice() * float64(it.Quantity)
	}
	return math.Round(sum*100) / 100
}

// SplitAvailability keeps input order within each group.
func SplitAvailability(items []backend.CartItem) (available, unavailable []backend.CartItem) {
	for _, it := range items {
		if it.IsAvailable() {
			available = append(available, it)
		} else {
			unavailable = append(unavailable, it)
		}
	}
	return available, unavailable
}

// OrderLines converts the available cart lines into order items.
func OrderLines(items []backend.CartItem) []backend.OrderItem {
	out := make([]backend.OrderItem, 0, len(items))
	for _, it := range items {
		if !it.IsAvailable() || it.Quantity < 1 {
			continue
		}
		out = append(out, backend.OrderItem{BookID: it.BookID, Quantity: it.Quantity})
	}
	return out
}
