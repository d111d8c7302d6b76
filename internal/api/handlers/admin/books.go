package admin

import (
	"context"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GET /admin/books?page=&size=
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	page, size := web.PageParams(r, defaultPageSize)
	res, err := h.API.Books.Page(r.Context(), token(r), backend.PageRequest{Page: page - 1, Size: size})
	if err != nil {
		if h.degraded(w, r, "books", err) {
			return
		}
		res = backend.EmptyPage[backend.Book](size)
	}
	h.Views.Render(w, r, http.StatusOK, "admin_books", web.BooksAdminPage{
		Books: res.Content,
		Pager: web.NewPager(r, page, size, res.TotalPages),
	})
}

// GET /admin/books/new
func (h *Handler) NewBook(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "book_form", h.bookFormPage(r.Context(), token(r), 0, storefront.BookForm{}))
}

// GET /admin/books/{id}/edit
func (h *Handler) EditBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	b, err := h.API.Books.Get(r.Context(), token(r), id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "book_form", h.bookFormPage(r.Context(), token(r), id, storefront.BookFormOf(*b)))
}

// POST /admin/books, POST /admin/books/{id}
func (h *Handler) SaveBook(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	f := storefront.ParseBookForm(r.PostForm)
	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "book_form",
			h.bookFormPage(r.Context(), token(r), id, f), storefront.KeyOf(err))
		return
	}

	b, err := h.API.SaveBook(r.Context(), token(r), id, f.Input(), f.GenreIDs, f.TagIDs)
	if err != nil {
		h.saveFailed(w, r, err, "book_form", h.bookFormPage(r.Context(), token(r), id, f))
		return
	}
	action := "book.update"
	if id == 0 {
		action = "book.create"
		id = b.BookID
	}
	h.record(r, action, id, map[string]any{"title": f.Title, "genres": f.GenreIDs, "tags": f.TagIDs})
	h.invalidate(r.Context(), cache.NSSuggest, cache.NSStats)
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

// POST /admin/books/{id}/delete
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	if err := h.API.Books.Delete(r.Context(), token(r), id); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "book.delete", id, nil)
	h.invalidate(r.Context(), cache.NSSuggest, cache.NSStats)
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

// bookFormPage loads the select options concurrently. A failed list leaves
// its select empty.
func (h *Handler) bookFormPage(ctx context.Context, tok string, id int64, f storefront.BookForm) web.BookFormPage {
	p := web.BookFormPage{ID: id, Form: f}
	var g errgroup.Group
	g.Go(func() error { p.Authors = listOrEmpty(ctx, h.Log, h.API.Authors, tok); return nil })
	g.Go(func() error { p.Publishers = listOrEmpty(ctx, h.Log, h.API.Publishers, tok); return nil })
	g.Go(func() error { p.Discounts = listOrEmpty(ctx, h.Log, h.API.Discounts, tok); return nil })
	g.Go(func() error { p.Genres = listOrEmpty(ctx, h.Log, h.API.Genres, tok); return nil })
	g.Go(func() error { p.Tags = listOrEmpty(ctx, h.Log, h.API.Tags, tok); return nil })
	_ = g.Wait()
	return p
}

func listOrEmpty[T any](ctx context.Context, log *zap.Logger, res backend.Resource[T], tok string) []T {
	items, err := res.List(ctx, tok)
	if err != nil {
		log.Warn("console list failed; showing empty", zap.String("resource", res.Path()), zap.Error(err))
		return []T{}
	}
	return items
}
