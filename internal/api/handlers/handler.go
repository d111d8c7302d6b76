package handlers

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

// Handler serves the public storefront and the buyer's pages.
type Handler struct {
	API      *backend.Client
	Sessions *session.Manager
	Views    *web.Renderer
	Payments *storefront.Reconciler
	Log      *zap.Logger

	ClientURL      string
	PublishableKey string
}

func NewHandler(api *backend.Client, sessions *session.Manager, views *web.Renderer, payments *storefront.Reconciler, log *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		Sessions: sessions,
		Views:    views,
		Payments: payments,
		Log:      log,
	}
}

// ===== Request Helpers =====

func sess(r *http.Request) session.Session {
	return middlewares.SessionFrom(r.Context())
}

func pathID(r *http.Request) (int64, bool) {
	id, err := validate.ParseID(r.PathValue("id"))
	return id, err == nil
}

func formID(r *http.Request, name string) (int64, bool) {
	id, err := validate.ParseID(r.FormValue(name))
	return id, err == nil
}
