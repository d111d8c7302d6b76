package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	actionLimit     = 30
	actionWindow    = time.Minute
)

// ===== Request Helpers =====

func token(r *http.Request) string {
	return middlewares.SessionFrom(r.Context()).Token
}

func pathID(r *http.Request) (int64, bool) {
	id, err := validate.ParseID(r.PathValue("id"))
	return id, err == nil
}

// optionalID is 0 on the create routes, which have no {id}.
func optionalID(r *http.Request) (int64, bool) {
	if r.PathValue("id") == "" {
		return 0, true
	}
	return pathID(r)
}

// ===== Rate Limiting =====

func rateKey(action, owner string) string {
	return "oku:admin:rl:" + action + ":" + owner
}

func (h *Handler) allowAction(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if h.RDB == nil {
		return true, nil
	}
	pipe := h.RDB.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return int(incr.Val()) <= limit, nil
}

// checkRateLimit caps destructive console actions per admin. Redis errors let
// the action through.
func (h *Handler) checkRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	ok, err := h.allowAction(r.Context(), rateKey(action, storefront.OwnerOf(token(r))), actionLimit, actionWindow)
	if err != nil {
		h.Log.Warn("admin rate limit unavailable", zap.String("action", action), zap.Error(err))
		return true
	}
	if !ok {
		h.Views.Problem(w, r, http.StatusTooManyRequests, i18n.MsgTooManyActions)
		return false
	}
	return true
}

// ===== Audit & Cache =====

func (h *Handler) record(r *http.Request, action string, target any, meta any) {
	h.Audit.Enqueue(ledger.AuditEvent{
		ActorRole: string(middlewares.SessionFrom(r.Context()).Role),
		Action:    action,
		Target:    fmt.Sprint(target),
		Meta:      meta,
	})
}

func (h *Handler) invalidate(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		if err := h.Cache.BumpVersion(ctx, ns); err != nil {
			h.Log.Warn("cache invalidation failed", zap.String("namespace", ns), zap.Error(err))
		}
	}
}

// ===== Failures =====

func refused(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrForbidden)
}

// degraded reports whether a list failure was already answered. Refusals
// end the request; anything else is logged and the page shows an empty list.
func (h *Handler) degraded(w http.ResponseWriter, r *http.Request, what string, err error) bool {
	if refused(err) {
		h.Views.SessionExpired(w, r)
		return true
	}
	h.Log.Warn("console list failed; showing empty", zap.String("list", what), zap.Error(err))
	return false
}

// saveFailed re-renders a console form with the backend's message.
func (h *Handler) saveFailed(w http.ResponseWriter, r *http.Request, err error, page string, data any) {
	if refused(err) {
		h.Views.SessionExpired(w, r)
		return
	}
	h.Log.Warn("console save failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.Views.RenderError(w, r, http.StatusBadGateway, page, data, failKey(err))
}

// failKey prefers the backend's own text; it is printed verbatim.
func failKey(err error) string {
	if msg := backend.MessageOf(err); msg != "" {
		return strings.ReplaceAll(msg, "%", "%%")
	}
	return i18n.MsgSomethingWrong
}
