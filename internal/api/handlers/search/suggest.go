package search

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/httpx"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"go.uber.org/zap"
)

const (
	cacheTTL = 2 * time.Minute
	maxLimit = 20
)

type SuggestItem struct {
	Type       string  `json:"type"` // "book"
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	AuthorName string  `json:"authorName,omitempty"`
	Label      string  `json:"label"`
	URL        string  `json:"url"`
	Image      string  `json:"image,omitempty"`
	Price      float64 `json:"price"`

	score int // internal ranking only, lower first
}

// Finder is the backend title search.
type Finder interface {
	SearchBooks(ctx context.Context, title string) ([]backend.Book, error)
}

// Suggest answers the search box with at most limit books. Results per
// normalized query are cached briefly.
func Suggest(api Finder, c *cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(strings.Join(strings.Fields(r.URL.Query().Get("q")), " "))
		if len([]rune(q)) < 2 {
			httpx.List[SuggestItem](w, nil)
			return
		}

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLimit {
				limit = n
			}
		}

		items, err := cache.Remember(r.Context(), c, cache.NSSuggest, q, cacheTTL, func(ctx context.Context) ([]SuggestItem, error) {
			books, err := api.SearchBooks(ctx, q)
			if err != nil {
				return nil, err
			}
			return rank(q, books), nil
		})
		if err != nil {
			log.Warn("suggest: search failed", zap.String("q", q), zap.Error(err))
			httpx.ErrorJSON(w, http.StatusBadGateway, "search unavailable")
			return
		}
		if len(items) > limit {
			items = items[:limit]
		}
		httpx.List(w, items)
	}
}

// rank puts title-prefix matches first, then substring matches, then the
// rest; each group sorts by title.
func rank(q string, books []backend.Book) []SuggestItem {
	out := make([]SuggestItem, 0, len(books))
	for _, b := range books {
		title := strings.ToLower(b.Title)
		it := SuggestItem{
			Type:       "book",
			score:      2,
			ID:         b.BookID,
			Title:      b.Title,
			Label:      b.Title,
			URL:        "/books/" + strconv.FormatInt(b.BookID, 10),
			Image:      b.Image(),
			Price:      b.Price,
			AuthorName: b.AuthorName(),
		}
		switch {
		case strings.HasPrefix(title, q):
			it.score = 0
		case strings.Contains(title, q):
			it.score = 1
		}
		if it.AuthorName != "" {
			it.Label = b.Title + " - " + it.AuthorName
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}
