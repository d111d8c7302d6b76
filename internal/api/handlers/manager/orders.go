package manager

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

const defaultPageSize = 10

// pipeline lists the statuses a manager works through.
var pipeline = []backend.OrderStatus{
	backend.StatusPending, backend.StatusProcessing, backend.StatusShipped,
	backend.StatusDelivered, backend.StatusPickedUp,
}

func ordersPage(heading string, orders []backend.Order) web.ConsoleOrdersPage {
	return web.ConsoleOrdersPage{
		Console:  "manager",
		Heading:  heading,
		Statuses: pipeline,
		Rows:     web.Rows(orders),
	}
}

// GET /manager/orders/unassigned
func (h *Handler) Unassigned(w http.ResponseWriter, r *http.Request) {
	orders, err := h.API.UnassignedOrders(r.Context(), token(r))
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	p := ordersPage("Unassigned", orders)
	p.Assign = true
	h.Views.Render(w, r, http.StatusOK, "console_orders", p)
}

// GET /manager/orders/mine
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.API.ManagerMyOrders(r.Context(), token(r))
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "console_orders", ordersPage("My orders", orders))
}

// GET /manager/orders?status=&page=&size=
func (h *Handler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := backend.OrderStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	if !status.Valid() {
		http.Redirect(w, r, "/manager/orders/mine", http.StatusSeeOther)
		return
	}
	page, size := web.PageParams(r, defaultPageSize)
	res, err := h.API.ManagerOrdersPage(r.Context(), token(r), status, backend.PageRequest{Page: page - 1, Size: size})
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	p := ordersPage(string(status), res.Content)
	p.Status = string(status)
	pager := web.NewPager(r, page, size, res.TotalPages)
	p.Pager = &pager
	h.Views.Render(w, r, http.StatusOK, "console_orders", p)
}

// GET /manager/orders/completed?page=&size=
func (h *Handler) Completed(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, defaultPageSize)
	res, err := backend.CompletedOrders(r.Context(), h.API.ManagerOrdersByStatus, token(r), page-1, size)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	p := ordersPage("Completed", res.Content)
	pager := web.NewPager(r, page, size, res.TotalPages)
	p.Pager = &pager
	h.Views.Render(w, r, http.StatusOK, "console_orders", p)
}

// POST /manager/orders/{id}/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if err := h.API.AssignOrder(r.Context(), token(r), id); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "order.assign", id, nil)
	http.Redirect(w, r, "/manager/orders/mine", http.StatusSeeOther)
}

// POST /manager/orders/{id}/status (newStatus)
//
// Only the next stage of the pipeline is accepted; the order is looked up
// among the manager's own orders to learn where it stands.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	want := backend.OrderStatus(strings.TrimSpace(r.FormValue("newStatus")))

	mine, err := h.API.ManagerMyOrders(r.Context(), token(r))
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	var order *backend.Order
	for i := range mine {
		if mine[i].OrderID == id {
			order = &mine[i]
			break
		}
	}
	if order == nil {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	next, ok := storefront.NextStage(order.Status, order.SelfPickup)
	if !ok || next != want {
		h.Log.Info("status change refused",
			zap.Int64("order_id", id), zap.String("from", string(order.Status)), zap.String("to", string(want)))
		h.Views.RenderError(w, r, http.StatusConflict, "console_orders", ordersPage("My orders", mine), i18n.MsgNoStageAvailable)
		return
	}
	if err := h.API.ManagerUpdateOrderStatus(r.Context(), token(r), id, next); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "order.status", id, map[string]any{"from": order.Status, "to": next})
	if err := h.Cache.BumpVersion(r.Context(), cache.NSStats); err != nil {
		h.Log.Warn("cache invalidation failed", zap.Error(err))
	}
	web.Back(w, r, "/manager/orders/mine")
}

// POST /manager/orders/{id}/delivery-cost (deliveryCost)
func (h *Handler) DeliveryCost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	raw := strings.ReplaceAll(strings.TrimSpace(r.FormValue("deliveryCost")), ",", ".")
	cost, err := strconv.ParseFloat(raw, 64)
	if err != nil || cost < 0 {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgPriceInvalid)
		return
	}
	if err := h.API.SetDeliveryCost(r.Context(), token(r), id, cost); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "order.delivery_cost", id, map[string]any{"cost": fmt.Sprintf("%.2f", cost)})
	web.Back(w, r, "/manager/orders/mine")
}
