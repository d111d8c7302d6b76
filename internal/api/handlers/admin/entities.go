package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

// entityKind adapts one name-only catalog resource to the shared entity screen.
type entityKind struct {
	heading  string
	hasExtra bool
	list     func(ctx context.Context, tok string) ([]web.EntityRow, error)
	save     func(ctx context.Context, tok string, id int64, name, extra string) error
	remove   func(ctx context.Context, tok string, id int64) error
}

func resourceKind[T any](res backend.Resource[T], heading string, hasExtra bool, row func(T) web.EntityRow, body func(name, extra string) T) entityKind {
	return entityKind{
		heading:  heading,
		hasExtra: hasExtra,
		list: func(ctx context.Context, tok string) ([]web.EntityRow, error) {
			items, err := res.List(ctx, tok)
			if err != nil {
				return nil, err
			}
			rows := make([]web.EntityRow, 0, len(items))
			for _, it := range items {
				rows = append(rows, row(it))
			}
			return rows, nil
		},
		save: func(ctx context.Context, tok string, id int64, name, extra string) error {
			var err error
			if id == 0 {
				_, err = res.Create(ctx, tok, body(name, extra))
			} else {
				_, err = res.Update(ctx, tok, id, body(name, extra))
			}
			return err
		},
		remove: res.Delete,
	}
}

// EntityKinds are the URL segments served by the entity screens.
var EntityKinds = []string{"authors", "genres", "tags", "publishers"}

func entityKinds(api *backend.Client) map[string]entityKind {
	return map[string]entityKind{
		"authors": resourceKind(api.Authors, "Authors", true,
			func(a backend.Author) web.EntityRow { return web.EntityRow{ID: a.AuthorID, Name: a.Name, Extra: a.Bio} },
			func(name, bio string) backend.Author { return backend.Author{Name: name, Bio: bio} }),
		"genres": resourceKind(api.Genres, "Genres", false,
			func(g backend.Genre) web.EntityRow { return web.EntityRow{ID: g.GenreID, Name: g.Name} },
			func(name, _ string) backend.Genre { return backend.Genre{Name: name} }),
		"tags": resourceKind(api.Tags, "Tags", false,
			func(t backend.Tag) web.EntityRow { return web.EntityRow{ID: t.TagID, Name: t.Name} },
			func(name, _ string) backend.Tag { return backend.Tag{Name: name} }),
		"publishers": resourceKind(api.Publishers, "Publishers", false,
			func(p backend.Publisher) web.EntityRow { return web.EntityRow{ID: p.PublisherID, Name: p.Name} },
			func(name, _ string) backend.Publisher { return backend.Publisher{Name: name} }),
	}
}

// entityPage builds the list; ok is false when the request was already answered.
func (h *Handler) entityPage(w http.ResponseWriter, r *http.Request, kind string) (web.EntityPage, bool) {
	k := h.kinds[kind]
	rows, err := k.list(r.Context(), token(r))
	if err != nil {
		if h.degraded(w, r, kind, err) {
			return web.EntityPage{}, false
		}
		rows = []web.EntityRow{}
	}
	p := web.EntityPage{Kind: kind, Heading: k.heading, Rows: rows, HasExtra: k.hasExtra}
	if id, err := validate.ParseID(r.URL.Query().Get("edit")); err == nil {
		for i := range rows {
			if rows[i].ID == id {
				p.Edit = &rows[i]
				break
			}
		}
	}
	return p, true
}

// GET /admin/{authors|genres|tags|publishers}?edit=
func (h *Handler) Entities(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.entityPage(w, r, kind)
		if !ok {
			return
		}
		h.Views.Render(w, r, http.StatusOK, "entities", p)
	}
}

// POST /admin/{kind}, POST /admin/{kind}/{id}
func (h *Handler) SaveEntity(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := optionalID(r)
		if !ok {
			h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
			return
		}
		k := h.kinds[kind]
		name, err := validate.RequireBounded("name", r.FormValue("name"), 1, 200)
		extra := ""
		if k.hasExtra {
			extra = strings.TrimSpace(r.FormValue("biography"))
		}
		if err != nil {
			if p, ok := h.entityPage(w, r, kind); ok {
				h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "entities", p, i18n.MsgAllFieldsRequired)
			}
			return
		}
		if err := k.save(r.Context(), token(r), id, name, extra); err != nil {
			if refused(err) {
				h.Views.SessionExpired(w, r)
				return
			}
			if p, ok := h.entityPage(w, r, kind); ok {
				h.saveFailed(w, r, err, "entities", p)
			}
			return
		}
		action := kind + ".update"
		if id == 0 {
			action = kind + ".create"
		}
		h.record(r, action, id, map[string]any{"name": name})
		h.invalidate(r.Context(), cache.NSSuggest)
		http.Redirect(w, r, "/admin/"+kind, http.StatusSeeOther)
	}
}

// POST /admin/{kind}/{id}/delete
func (h *Handler) DeleteEntity(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
			return
		}
		if !h.checkRateLimit(w, r, "delete") {
			return
		}
		if err := h.kinds[kind].remove(r.Context(), token(r), id); err != nil {
			h.Views.Fail(w, r, err)
			return
		}
		h.record(r, kind+".delete", id, nil)
		h.invalidate(r.Context(), cache.NSSuggest)
		http.Redirect(w, r, "/admin/"+kind, http.StatusSeeOther)
	}
}
