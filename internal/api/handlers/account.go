package handlers

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/routeguard"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

// GET /login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "login", web.LoginPage{})
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.RenderError(w, r, http.StatusBadRequest, "login", web.LoginPage{}, i18n.MsgAllFieldsRequired)
		return
	}
	f := storefront.ParseLoginForm(r.PostForm)
	page := web.LoginPage{Email: f.Email}
	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "login", page, storefront.KeyOf(err))
		return
	}

	res, err := h.API.Login(r.Context(), f.Credentials())
	switch {
	case err == nil && res.Token == "":
		h.Log.Warn("login: backend returned no token")
		h.Views.RenderError(w, r, http.StatusBadGateway, "login", page, i18n.MsgLoginFailed)
		return
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrForbidden), errors.Is(err, backend.ErrBadRequest), errors.Is(err, backend.ErrNotFound):
		h.Views.RenderError(w, r, http.StatusUnauthorized, "login", page, i18n.MsgInvalidCredentials)
		return
	case err != nil:
		h.Log.Error("login failed", zap.Error(err))
		h.Views.RenderError(w, r, http.StatusBadGateway, "login", page, i18n.MsgLoginFailed)
		return
	}

	role := res.Role
	if role == "" {
		role = backend.RoleUser
	}
	h.Sessions.SetAuth(w, res.Token, role)
	h.Log.Info("login", zap.String("role", string(role)))
	http.Redirect(w, r, routeguard.Home(string(role)), http.StatusSeeOther)
}

// GET /register
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "register", web.RegisterPage{})
}

// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.RenderError(w, r, http.StatusBadRequest, "register", web.RegisterPage{}, i18n.MsgAllFieldsRequired)
		return
	}
	f := storefront.ParseRegisterForm(r.PostForm)
	page := web.RegisterPage{Email: f.Email}
	if err := f.Validate(); err != nil {
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "register", page, storefront.KeyOf(err))
		return
	}

	res, err := h.API.Register(r.Context(), f.Credentials())
	if err != nil {
		h.Log.Warn("register failed", zap.Int("status", backend.StatusOf(err)), zap.String("message", backend.MessageOf(err)))
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "register", page, i18n.MsgRegisterFailed)
		return
	}
	if res.Token == "" {
		// Activation pending: nothing to store yet.
		h.Views.Render(w, r, http.StatusOK, "login", web.LoginPage{Email: f.Email, Notice: i18n.For(r).T(i18n.MsgConfirmEmail)})
		return
	}
	role := res.Role
	if role == "" {
		role = backend.RoleUser
	}
	h.Sessions.SetAuth(w, res.Token, role)
	http.Redirect(w, r, "/profile?registered=1", http.StatusSeeOther)
}

// POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET /profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.API.Profile(r.Context(), sess(r).Token)
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetUser(w, *p)

	page := web.ProfilePage{Profile: *p, Form: storefront.ProfileFormOf(*p)}
	loc := i18n.For(r)
	switch {
	case r.URL.Query().Has("registered"):
		page.Notice = loc.T(i18n.MsgConfirmEmail)
	case r.URL.Query().Has("saved"):
		page.Notice = loc.T("Saved")
	}
	h.Views.Render(w, r, http.StatusOK, "profile", page)
}

// POST /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Problem(w, r, http.StatusBadRequest, i18n.MsgSomethingWrong)
		return
	}
	f := storefront.ParseProfileForm(r.PostForm)
	if err := f.Validate(); err != nil {
		current := backend.Profile{Username: f.Username}
		if u, ok := h.Sessions.User(r); ok {
			current.Email = u.Email
		}
		h.Views.RenderError(w, r, http.StatusUnprocessableEntity, "profile", web.ProfilePage{Profile: current, Form: f}, storefront.KeyOf(err))
		return
	}
	p, err := h.API.UpdateProfile(r.Context(), sess(r).Token, f.Update())
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Sessions.SetUser(w, *p)
	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

// GET /lang/{code}
func (h *Handler) Language(w http.ResponseWriter, r *http.Request) {
	lang := i18n.New(r.PathValue("code")).Lang()
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 3600,
		SameSite: http.SameSiteLaxMode,
	})
	web.Back(w, r, "/")
}
