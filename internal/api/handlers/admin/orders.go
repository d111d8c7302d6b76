package admin

import (
	"net/http"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

// GET /admin/orders?status=&page=&size=
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, defaultPageSize)
	req := backend.PageRequest{Page: page - 1, Size: size}
	p := web.ConsoleOrdersPage{Console: "admin", Heading: "Orders", Statuses: backend.OrderStatuses}

	status := backend.OrderStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	var (
		res backend.Page[backend.Order]
		err error
	)
	if status.Valid() {
		res, err = h.API.AdminOrdersPage(r.Context(), token(r), status, req)
		p.Heading = string(status)
		p.Status = string(status)
	} else {
		res, err = h.API.AllOrders(r.Context(), token(r), req)
	}
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	pager := web.NewPager(r, page, size, res.TotalPages)
	p.Rows = web.Rows(res.Content)
	p.Pager = &pager
	h.Views.Render(w, r, http.StatusOK, "console_orders", p)
}

// GET /admin/orders/completed?page=&size=
func (h *Handler) CompletedOrders(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, defaultPageSize)
	res, err := backend.CompletedOrders(r.Context(), h.API.AdminOrdersByStatus, token(r), page-1, size)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	pager := web.NewPager(r, page, size, res.TotalPages)
	h.Views.Render(w, r, http.StatusOK, "console_orders", web.ConsoleOrdersPage{
		Console:  "admin",
		Heading:  "Completed",
		Statuses: backend.OrderStatuses,
		Rows:     web.Rows(res.Content),
		Pager:    &pager,
	})
}

// POST /admin/orders/{id}/status (newStatus)
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	status := backend.OrderStatus(strings.TrimSpace(r.FormValue("newStatus")))
	if !status.Valid() {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	if err := h.API.AdminUpdateOrderStatus(r.Context(), token(r), id, status); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "order.status", id, map[string]any{"status": status})
	h.invalidate(r.Context(), cache.NSStats)
	web.Back(w, r, "/admin/orders")
}
