package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

const StatsCacheDuration = 30 * time.Second

// GET /admin?startDate=&endDate=
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := validate.StatsRange(q.Get("startDate"), q.Get("endDate"))
	tok := token(r)

	stats, err := cache.Remember(r.Context(), h.Cache, cache.NSStats, "admin:"+rng.StartDate+":"+rng.EndDate, StatsCacheDuration,
		func(ctx context.Context) (backend.Statistics, error) {
			s, err := h.API.AdminStatistics(ctx, tok, rng)
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
		Console: "admin",
		Stats:   stats,
		Start:   rng.StartDate,
		End:     rng.EndDate,
	})
}
