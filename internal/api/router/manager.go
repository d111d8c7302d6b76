package router

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers/manager"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
)

// MountManager wires /manager/* behind RequireRole(MANAGER).
func MountManager(mux *http.ServeMux, h *manager.Handler) {
	gate := func(next http.HandlerFunc) http.Handler {
		return middlewares.RequireRole(backend.RoleManager, next)
	}

	mux.Handle("GET /manager", gate(h.Stats))
	mux.Handle("GET /manager/{$}", gate(h.Stats))
	mux.Handle("GET /manager/profile", gate(h.Profile))

	mux.Handle("GET /manager/orders", gate(h.ByStatus))
	mux.Handle("GET /manager/orders/unassigned", gate(h.Unassigned))
	mux.Handle("GET /manager/orders/mine", gate(h.Mine))
	mux.Handle("GET /manager/orders/completed", gate(h.Completed))
	mux.Handle("POST /manager/orders/{id}/assign", gate(h.Assign))
	mux.Handle("POST /manager/orders/{id}/status", gate(h.UpdateStatus))
	mux.Handle("POST /manager/orders/{id}/delivery-cost", gate(h.DeliveryCost))
}
