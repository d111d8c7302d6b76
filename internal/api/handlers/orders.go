package handlers

import (
	"fmt"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

const defaultOrdersPageSize = 5

// GET /orders?page=&size=
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, defaultOrdersPageSize)
	res, err := h.API.MyOrders(r.Context(), sess(r).Token, backend.PageRequest{Page: page - 1, Size: size})
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "orders", web.OrdersPage{
		Orders: res.Content,
		Pager:  web.NewPager(r, page, size, res.TotalPages),
	})
}

// GET /orders/{id}
func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	h.Views.Render(w, r, http.StatusOK, "order", web.OrderPage{Order: *o, CanConfirm: storefront.CanConfirmDelivery(*o)})
}

// POST /orders/{id}/confirm-delivery
func (h *Handler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	if !storefront.CanConfirmDelivery(*o) {
		h.Views.RenderError(w, r, http.StatusConflict, "order", web.OrderPage{Order: *o}, i18n.MsgConfirmNotAllowed)
		return
	}
	if err := h.API.ConfirmDelivery(r.Context(), sess(r).Token, o.OrderID); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/orders/%d", o.OrderID), http.StatusSeeOther)
}

func (h *Handler) loadOrder(w http.ResponseWriter, r *http.Request) (*backend.Order, bool) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return nil, false
	}
	o, err := h.API.Order(r.Context(), sess(r).Token, id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return nil, false
	}
	return o, true
}
