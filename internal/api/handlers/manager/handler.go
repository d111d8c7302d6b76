// Package manager serves the MANAGER console: order intake, the order
// pipeline and the manager's own statistics.
package manager

import (
	"fmt"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/audit"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"go.uber.org/zap"
)

type Handler struct {
	API   *backend.Client
	Views *web.Renderer
	Cache *cache.Cache
	Audit *audit.Queue
	Log   *zap.Logger
}

func NewHandler(api *backend.Client, views *web.Renderer, c *cache.Cache, q *audit.Queue, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{API: api, Views: views, Cache: c, Audit: q, Log: log}
}

func token(r *http.Request) string {
	return middlewares.SessionFrom(r.Context()).Token
}

func pathID(r *http.Request) (int64, bool) {
	id, err := validate.ParseID(r.PathValue("id"))
	return id, err == nil
}

func (h *Handler) record(r *http.Request, action string, id int64, meta any) {
	h.Audit.Enqueue(ledger.AuditEvent{
		ActorRole: string(middlewares.SessionFrom(r.Context()).Role),
		Action:    action,
		Target:    fmt.Sprint(id),
		Meta:      meta,
	})
}
