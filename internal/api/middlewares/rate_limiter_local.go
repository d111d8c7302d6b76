package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const localIdleTTL = 10 * time.Minute

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter is the single-process token bucket used when Redis is absent.
type LocalLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	keyFn   KeyFunc
	limit   rate.Limit
	burst   int
	sweep   time.Time
}

func NewLocalLimiter(perSec float64, burst int, keyFn KeyFunc) *LocalLimiter {
	return &LocalLimiter{
		entries: map[string]*localEntry{},
		keyFn:   keyFn,
		limit:   rate.Limit(perSec),
		burst:   burst,
	}
}

func (l *LocalLimiter) limiter(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.sweep) > localIdleTTL {
		for k, e := range l.entries {
			if now.Sub(e.seen) > localIdleTTL {
				delete(l.entries, k)
			}
		}
		l.sweep = now
	}
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.seen = now
	return e.lim
}

// Allow reports whether the caller behind key may proceed now, and if not,
// how long until it may.
func (l *LocalLimiter) Allow(key string) (bool, time.Duration) {
	now := time.Now()
	res := l.limiter(key, now).ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

func (l *LocalLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(l.keyFn(r))
		w.Header().Set("X-RateLimit-Policy", "token-bucket-local")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		if !ok {
			sec := int64(math.Ceil(wait.Seconds()))
			if sec < 1 {
				sec = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
