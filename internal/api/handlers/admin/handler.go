package admin

import (
	"github.com/5w1tchy/oku-storefront/internal/audit"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/5w1tchy/oku-storefront/internal/storage/s3"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler serves the ADMIN console. Covers and RDB may be nil.
type Handler struct {
	API    *backend.Client
	Views  *web.Renderer
	Cache  *cache.Cache
	Audit  *audit.Queue
	Ledger ledger.Store
	Covers *s3.CoverStore
	RDB    *redis.Client
	Log    *zap.Logger

	kinds map[string]entityKind
}

func NewHandler(api *backend.Client, views *web.Renderer, c *cache.Cache, q *audit.Queue, store ledger.Store, covers *s3.CoverStore, rdb *redis.Client, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		API:    api,
		Views:  views,
		Cache:  c,
		Audit:  q,
		Ledger: store,
		Covers: covers,
		RDB:    rdb,
		Log:    log,
		kinds:  entityKinds(api),
	}
}
