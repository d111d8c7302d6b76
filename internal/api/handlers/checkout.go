package handlers

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	f := storefront.ParseCheckoutForm(r.PostForm)

	page, err := h.cartPage(r)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	page.Form = f
	page.IdempotencyKey = idempotencyKey(r.PostForm.Get("idempotencyKey"))

	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "cart", page, storefront.KeyOf(err))
		return
	}
	lines := storefront.OrderLines(page.Available)
	if len(lines) == 0 {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "cart", page, i18n.MsgCartEmpty)
		return
	}

	cs, err := h.API.CreateOrder(r.Context(), sess(r).Token, page.IdempotencyKey, f.OrderRequest(lines, h.ClientURL))
	switch {
	case errors.Is(err, backend.ErrForbidden), errors.Is(err, backend.ErrUnauthorized):
		h.Log.Info("checkout: session refused", zap.Error(err))
		h.Views.SessionExpired(w, r)
		return
	case err != nil:
		h.Log.Error("checkout: create order failed", zap.Error(err))
		h.Views.RenderError(w, r, http.StatusBadGateway, "cart", page, i18n.MsgOrderFailed)
		return
	case cs.SessionID == "" && cs.URL == "":
		h.Log.Error("checkout: backend returned no payment session")
		h.Views.RenderError(w, r, http.StatusBadGateway, "cart", page, i18n.MsgOrderFailed)
		return
	}

	h.Log.Info("checkout: payment session opened",
		zap.String("session", cs.SessionID), zap.Int("lines", len(lines)), zap.Bool("self_pickup", f.SelfPickup))
	h.Views.Render(w, r, http.StatusOK, "redirect", web.RedirectPage{
		PublishableKey: h.PublishableKey,
		SessionID:      cs.SessionID,
		URL:            cs.URL,
	})
}

// idempotencyKey keeps the key the cart form was rendered with, so a double
// submit reuses it; anything that is not a UUID is replaced.
func idempotencyKey(posted string) string {
	if id, err := uuid.Parse(posted); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// GET /payment/success?session_id=
func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("session_id")
	rec, err := h.Payments.Confirm(r.Context(), sess(r).Token, sid)
	switch {
	case errors.Is(err, storefront.ErrNoSession):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case errors.Is(err, backend.ErrForbidden), errors.Is(err, backend.ErrUnauthorized):
		h.Views.SessionExpired(w, r)
		return
	case err != nil:
		h.Log.Warn("payment confirmation pending", zap.String("session", sid), zap.Error(err))
		h.Views.Render(w, r, http.StatusOK, "payment_success", web.PaymentPage{SessionID: sid})
		return
	}
	if !rec.Replayed {
		h.Sessions.SetCart(w, nil)
	}
	h.Views.Render(w, r, http.StatusOK, "payment_success", web.PaymentPage{Receipt: &rec, SessionID: sid})
}

// GET /payment/cancel
func (h *Handler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "payment_cancel", nil)
}
