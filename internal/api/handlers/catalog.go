package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/api/apperr"
	"github.com/5w1tchy/oku-storefront/internal/api/httpx"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

// Tag names the home page and the bestsellers page are built from.
const (
	TagNew         = "жаңы китептер"
	TagPopular     = "көп окулгандар"
	TagBestsellers = "бестселлер"
)

// GET /{$}
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := web.HomePage{}

	// Every section degrades to empty on its own.
	var err error
	if page.NewBooks, err = h.API.BooksByTagName(ctx, TagNew); err != nil {
		h.Log.Warn("home: new books", zap.Error(err))
	}
	if page.Popular, err = h.API.BooksByTagName(ctx, TagPopular); err != nil {
		h.Log.Warn("home: popular books", zap.Error(err))
	}
	if page.Banners, err = h.API.DiscountBanners(ctx); err != nil {
		h.Log.Warn("home: discount banners", zap.Error(err))
	}
	if page.Tags, err = h.API.PublicTags(ctx); err != nil {
		h.Log.Warn("home: tags", zap.Error(err))
	}
	h.Views.Render(w, r, http.StatusOK, "home", page)
}

// GET /books/{id}
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	b, err := h.API.PublicBook(r.Context(), id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	inWishlist := false
	for _, wid := range h.Sessions.Wishlist(r) {
		if wid == b.BookID {
			inWishlist = true
			break
		}
	}
	h.Views.Render(w, r, http.StatusOK, "book", web.BookPage{Book: *b, InWishlist: inWishlist})
}

// GET /books
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := i18n.For(r)
	books, err := h.API.PublicBooks(ctx)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	genres, err := h.API.PublicGenres(ctx)
	if err != nil {
		h.Log.Warn("books: genres menu", zap.Error(err))
	}
	h.Views.Render(w, r, http.StatusOK, "books", web.BookListPage{Heading: loc.T("Books"), Books: books, Genres: genres})
}

// GET /genres/{id}
func (h *Handler) Genre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	ctx := r.Context()
	books, err := h.API.BooksByGenre(ctx, id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	page := web.BookListPage{Books: books}
	if genres, err := h.API.PublicGenres(ctx); err == nil {
		page.Genres = genres
		for _, g := range genres {
			if g.GenreID == id {
				page.Heading = g.Name
			}
		}
	}
	h.Views.Render(w, r, http.StatusOK, "books", page)
}

// GET /tags/{id}
func (h *Handler) Tag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	books, err := h.API.BooksByTag(r.Context(), id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	heading := "#" + r.PathValue("id")
	if tags, err := h.API.PublicTags(r.Context()); err == nil {
		for _, t := range tags {
			if t.TagID == id {
				heading = "#" + t.Name
			}
		}
	}
	h.Views.Render(w, r, http.StatusOK, "books", web.BookListPage{Heading: heading, Books: books})
}

// GET /bestsellers
func (h *Handler) Bestsellers(w http.ResponseWriter, r *http.Request) {
	books, err := h.API.BooksByTagName(r.Context(), TagBestsellers)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "books", web.BookListPage{Heading: i18n.For(r).T("Bestsellers"), Books: books})
}

// GET /search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "/search", h.API.SearchBooks)
}

// GET /aisearch?q=
func (h *Handler) AISearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, "/aisearch", h.API.SmartSearch)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, action string, find func(ctx context.Context, q string) ([]backend.Book, error)) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page := web.BookListPage{Heading: i18n.For(r).T("Search"), Query: q, Action: action}
	if q != "" {
		books, err := find(r.Context(), q)
		if err != nil {
			h.Views.Fail(w, r, err)
			return
		}
		page.Books = books
	}
	h.Views.Render(w, r, http.StatusOK, "books", page)
}

// GET /chatbot/start, /chatbot/nodes, /chatbot/nodes/{id}
func (h *Handler) ChatStart(w http.ResponseWriter, r *http.Request) {
	raw, err := h.API.ChatStart(r.Context())
	h.writeRaw(w, r, raw, err)
}

func (h *Handler) ChatNodes(w http.ResponseWriter, r *http.Request) {
	raw, err := h.API.ChatNodes(r.Context())
	h.writeRaw(w, r, raw, err)
}

func (h *Handler) ChatNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid node id")
		return
	}
	raw, err := h.API.ChatNode(r.Context(), id)
	h.writeRaw(w, r, raw, err)
}

func (h *Handler) writeRaw(w http.ResponseWriter, r *http.Request, raw json.RawMessage, err error) {
	if apperr.HandleError(w, r, err, "Chatbot unavailable") {
		h.Log.Warn("chatbot request failed", zap.String("path", r.URL.Path), zap.Error(err))
		return
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	httpx.WriteJSON(w, http.StatusOK, raw)
}

// NotFound answers every path no route claims.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
}
