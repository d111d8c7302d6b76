package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/google/uuid"
)

// GET /cart
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	page, err := h.cartPage(r)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	page.IdempotencyKey = uuid.NewString()
	h.Sessions.SetCart(w, append(page.Available, page.Unavailable...))
	h.Views.Render(w, r, http.StatusOK, "cart", page)
}

func (h *Handler) cartPage(r *http.Request) (web.CartPage, error) {
	items, err := h.API.EnrichedCart(r.Context(), sess(r).Token)
	if err != nil {
		return web.CartPage{}, err
	}
	avail, unavail := storefront.SplitAvailability(items)
	return web.CartPage{Available: avail, Unavailable: unavail, Total: storefront.CartTotal(items)}, nil
}

// POST /cart/add
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	bookID, ok := formID(r, "bookId")
	if !ok {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || qty < 1 {
		qty = 1
	}
	if err := h.API.AddToCart(r.Context(), sess(r).Token, bookID, qty); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	web.Back(w, r, "/cart")
}

// POST /cart/items/{id}/increase
func (h *Handler) IncreaseCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.API.IncreaseCartItem)
}

// POST /cart/items/{id}/decrease
func (h *Handler) DecreaseCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.API.DecreaseCartItem)
}

// POST /cart/items/{id}/remove
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartItemAction(w, r, h.API.RemoveCartItem)
}

func (h *Handler) cartItemAction(w http.ResponseWriter, r *http.Request, act func(ctx context.Context, token string, id int64) error) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if err := act(r.Context(), sess(r).Token, id); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.API.ClearCart(r.Context(), sess(r).Token); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetCart(w, nil)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// GET /wishlist
func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.API.EnrichedWishlist(r.Context(), sess(r).Token)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = session.AddWishlistID(ids, it.BookID)
	}
	h.Sessions.SetWishlist(w, ids)
	h.Views.Render(w, r, http.StatusOK, "wishlist", web.WishlistPage{Items: items})
}

// POST /wishlist/add
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	bookID, ok := formID(r, "bookId")
	if !ok {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	if err := h.API.AddToWishlist(r.Context(), sess(r).Token, bookID); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetWishlist(w, session.AddWishlistID(h.Sessions.Wishlist(r), bookID))
	web.Back(w, r, "/wishlist")
}

// POST /wishlist/remove
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	bookID, ok := formID(r, "bookId")
	if !ok {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	if err := h.API.RemoveFromWishlist(r.Context(), sess(r).Token, bookID); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetWishlist(w, session.RemoveWishlistID(h.Sessions.Wishlist(r), bookID))
	web.Back(w, r, "/wishlist")
}

// POST /wishlist/clear
func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.API.ClearWishlist(r.Context(), sess(r).Token); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetWishlist(w, nil)
	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}
