package router

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers/admin"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
)

// MountAdmin wires all /admin/* pages behind RequireRole(ADMIN).
func MountAdmin(mux *http.ServeMux, h *admin.Handler) {
	gate := func(next http.HandlerFunc) http.Handler {
		return middlewares.RequireRole(backend.RoleAdmin, next)
	}

	// Stats & audit
	mux.Handle("GET /admin", gate(h.Stats))
	mux.Handle("GET /admin/{$}", gate(h.Stats))
	mux.Handle("GET /admin/audit", gate(h.AuditLog))

	// Books
	mux.Handle("GET /admin/books", gate(h.Books))
	mux.Handle("GET /admin/books/new", gate(h.NewBook))
	mux.Handle("GET /admin/books/{id}/edit", gate(h.EditBook))
	mux.Handle("POST /admin/books", gate(h.SaveBook))
	mux.Handle("POST /admin/books/{id}", gate(h.SaveBook))
	mux.Handle("POST /admin/books/{id}/delete", gate(h.DeleteBook))
	mux.Handle("POST /admin/covers/presign", gate(h.PresignCover))

	// Authors, genres, tags, publishers
	for _, kind := range admin.EntityKinds {
		base := "/admin/" + kind
		mux.Handle("GET "+base, gate(h.Entities(kind)))
		mux.Handle("POST "+base, gate(h.SaveEntity(kind)))
		mux.Handle("POST "+base+"/{id}", gate(h.SaveEntity(kind)))
		mux.Handle("POST "+base+"/{id}/delete", gate(h.DeleteEntity(kind)))
	}

	// Discounts
	mux.Handle("GET /admin/discounts", gate(h.Discounts))
	mux.Handle("GET /admin/discounts/new", gate(h.NewDiscount))
	mux.Handle("GET /admin/discounts/{id}/edit", gate(h.EditDiscount))
	mux.Handle("POST /admin/discounts", gate(h.SaveDiscount))
	mux.Handle("POST /admin/discounts/{id}", gate(h.SaveDiscount))
	mux.Handle("POST /admin/discounts/{id}/delete", gate(h.DeleteDiscount))

	// Uploads
	mux.Handle("GET /admin/uploads", gate(h.Uploads))
	mux.Handle("POST /admin/uploads/banner", gate(h.UploadBanner))
	mux.Handle("GET /admin/uploads/banner/info", gate(h.BannerInfo))
	mux.Handle("POST /admin/uploads/banner/delete", gate(h.DeleteBanner))
	mux.Handle("POST /admin/uploads/images", gate(h.UploadImage))
	mux.Handle("GET /admin/uploads/images/{publicId}", gate(h.ImageInfo))
	mux.Handle("POST /admin/uploads/images/{publicId}/delete", gate(h.DeleteImage))

	// Users & managers
	mux.Handle("GET /admin/users", gate(h.Users))
	mux.Handle("POST /admin/users/{id}/block", gate(h.BlockUser))
	mux.Handle("POST /admin/users/{id}/unblock", gate(h.UnblockUser))
	mux.Handle("POST /admin/users/{id}/delete", gate(h.DeleteUser))
	mux.Handle("GET /admin/managers", gate(h.Managers))
	mux.Handle("GET /admin/managers/new", gate(h.NewManager))
	mux.Handle("GET /admin/managers/{id}/edit", gate(h.EditManager))
	mux.Handle("POST /admin/managers", gate(h.SaveManager))
	mux.Handle("POST /admin/managers/{id}", gate(h.SaveManager))
	mux.Handle("POST /admin/managers/{id}/block", gate(h.BlockManager))
	mux.Handle("POST /admin/managers/{id}/unblock", gate(h.UnblockManager))
	mux.Handle("POST /admin/managers/{id}/delete", gate(h.DeleteManager))

	// Orders
	mux.Handle("GET /admin/orders", gate(h.Orders))
	mux.Handle("GET /admin/orders/completed", gate(h.CompletedOrders))
	mux.Handle("POST /admin/orders/{id}/status", gate(h.UpdateOrderStatus))
}
