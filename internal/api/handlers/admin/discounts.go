package admin

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

// GET /admin/discounts
func (h *Handler) Discounts(w http.ResponseWriter, r *http.Request) {
	items, err := h.API.Discounts.List(r.Context(), token(r))
	if err != nil {
		if h.degraded(w, r, "discounts", err) {
			return
		}
		items = []backend.Discount{}
	}
	h.Views.Render(w, r, http.StatusOK, "discounts", web.DiscountsPage{Discounts: items})
}

// GET /admin/discounts/new
func (h *Handler) NewDiscount(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "discount_form", web.DiscountFormPage{})
}

// GET /admin/discounts/{id}/edit
func (h *Handler) EditDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	d, err := h.API.Discounts.Get(r.Context(), token(r), id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "discount_form", web.DiscountFormPage{ID: id, Form: storefront.DiscountFormOf(*d)})
}

// POST /admin/discounts, POST /admin/discounts/{id}
func (h *Handler) SaveDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	f := storefront.ParseDiscountForm(r.PostForm)
	page := web.DiscountFormPage{ID: id, Form: f}
	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "discount_form", page, storefront.KeyOf(err))
		return
	}
	d, err := h.API.SaveDiscount(r.Context(), token(r), id, f.Input())
	if err != nil {
		h.saveFailed(w, r, err, "discount_form", page)
		return
	}
	action := "discount.update"
	if id == 0 {
		action = "discount.create"
	}
	h.record(r, action, d.DiscountID, map[string]any{"name": f.DiscountName, "percentage": f.DiscountPercentage})
	http.Redirect(w, r, "/admin/discounts", http.StatusSeeOther)
}

// POST /admin/discounts/{id}/delete
func (h *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	if err := h.API.Discounts.Delete(r.Context(), token(r), id); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "discount.delete", id, nil)
	http.Redirect(w, r, "/admin/discounts", http.StatusSeeOther)
}
