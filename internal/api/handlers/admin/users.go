package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

type listUsersFunc func(ctx context.Context, token string, p backend.PageRequest) (backend.Page[backend.User], error)

type blockFunc func(ctx context.Context, token string, id int64, blocked bool) error

// GET /admin/users
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.usersPage(w, r, "users", h.API.Users); ok {
		h.Views.Render(w, r, http.StatusOK, "users", p)
	}
}

// GET /admin/managers
func (h *Handler) Managers(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.usersPage(w, r, "managers", h.API.Managers); ok {
		h.Views.Render(w, r, http.StatusOK, "users", p)
	}
}

func (h *Handler) usersPage(w http.ResponseWriter, r *http.Request, kind string, list listUsersFunc) (web.UsersPage, bool) {
	page, size := web.PageParams(r, defaultPageSize)
	res, err := list(r.Context(), token(r), backend.PageRequest{Page: page - 1, Size: size})
	if err != nil {
		if h.degraded(w, r, kind, err) {
			return web.UsersPage{}, false
		}
		res = backend.EmptyPage[backend.User](size)
	}
	return web.UsersPage{
		Kind:  kind,
		Users: res.Content,
		Pager: web.NewPager(r, page, size, res.TotalPages),
	}, true
}

// POST /admin/users/{id}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, "users", true, h.API.SetUserBlocked)
}

// POST /admin/users/{id}/unblock
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, "users", false, h.API.SetUserBlocked)
}

// POST /admin/managers/{id}/block
func (h *Handler) BlockManager(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, "managers", true, h.API.SetManagerBlocked)
}

// POST /admin/managers/{id}/unblock
func (h *Handler) UnblockManager(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, "managers", false, h.API.SetManagerBlocked)
}

func (h *Handler) setBlocked(w http.ResponseWriter, r *http.Request, kind string, blocked bool, set blockFunc) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "block") {
		return
	}
	if err := set(r.Context(), token(r), id, blocked); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	action := kind + ".unblock"
	if blocked {
		action = kind + ".block"
	}
	h.record(r, action, id, nil)
	web.Back(w, r, "/admin/"+kind)
}

// POST /admin/users/{id}/delete
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	if err := h.API.DeleteUser(r.Context(), token(r), id); err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "users.delete", id, nil)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// POST /admin/managers/{id}/delete
func (h *Handler) DeleteManager(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if !h.checkRateLimit(w, r, "delete") {
		return
	}
	err := h.API.DeleteManager(r.Context(), token(r), id)
	if errors.Is(err, backend.ErrManagerReferenced) {
		h.Log.Info("manager delete refused: related records", zap.Int64("manager_id", id))
		if p, ok := h.usersPage(w, r, "managers", h.API.Managers); ok {
			h.Views.RenderError(w, r, http.StatusConflict, "users", p, i18n.MsgManagerHasRelations)
		}
		return
	}
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.record(r, "managers.delete", id, nil)
	http.Redirect(w, r, "/admin/managers", http.StatusSeeOther)
}

// GET /admin/managers/new
func (h *Handler) NewManager(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "manager_form", web.ManagerFormPage{Form: storefront.ManagerForm{Creating: true}})
}

// GET /admin/managers/{id}/edit
func (h *Handler) EditManager(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	m, err := h.API.Manager(r.Context(), token(r), id)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "manager_form", web.ManagerFormPage{ID: id, Form: storefront.ManagerFormOf(*m)})
}

// POST /admin/managers, POST /admin/managers/{id}
func (h *Handler) SaveManager(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(r)
	if !ok {
		h.Views.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	f := storefront.ParseManagerForm(r.PostForm, id == 0)
	page := web.ManagerFormPage{ID: id, Form: f}
	page.Form.Password = ""
	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "manager_form", page, storefront.KeyOf(err))
		return
	}

	var err error
	action := "managers.update"
	if id == 0 {
		action = "managers.create"
		var m *backend.User
		if m, err = h.API.RegisterManager(r.Context(), token(r), f.Input()); err == nil {
			id = m.UserID
		}
	} else {
		_, err = h.API.UpdateManager(r.Context(), token(r), id, f.Input())
	}
	if err != nil {
		h.saveFailed(w, r, err, "manager_form", page)
		return
	}
	h.record(r, action, id, map[string]any{"email": f.Email})
	http.Redirect(w, r, "/admin/managers", http.StatusSeeOther)
}
