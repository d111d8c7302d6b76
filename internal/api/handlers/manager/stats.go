package manager

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

const statsTTL = 30 * time.Second

// GET /manager?startDate=&endDate=
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := validate.StatsRange(q.Get("startDate"), q.Get("endDate"))
	tok := token(r)

	// Per-manager numbers: the key carries the owner digest, never the token.
	key := "manager:" + storefront.OwnerOf(tok) + ":" + rng.StartDate + ":" + rng.EndDate
	stats, err := cache.Remember(r.Context(), h.Cache, cache.NSStats, key, statsTTL,
		func(ctx context.Context) (backend.Statistics, error) {
			s, err := h.API.ManagerStatistics(ctx, tok, rng)
			if err != nil {
				return backend.Statistics{}, err
			}
			return *s, nil
		})
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "stats", web.StatsPage{
		Console: "manager",
		Stats:   stats,
		Start:   rng.StartDate,
		End:     rng.EndDate,
	})
}

// GET /manager/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.API.ManagerProfile(r.Context(), token(r))
	if err != nil {
		h.Views.Fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "manager_profile", web.ManagerProfilePage{User: *u})
}
