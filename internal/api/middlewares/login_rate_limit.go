package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoginRateLimit caps login and registration attempts per IP. With Redis the
// count is a shared fixed window; without it a local limiter with the same
// average rate stands in.
func LoginRateLimit(rdb *redis.Client, maxAttempts int, window time.Duration, log *zap.Logger) Middleware {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	local := NewLocalLimiter(float64(rate.Every(window/time.Duration(maxAttempts))), maxAttempts, PerIPKey("login"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			if rdb == nil {
				if ok, _ := local.Allow("login:" + ip); !ok {
					tooManyLogins(w, window)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := "rl:login:" + ip
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("login limiter: redis error, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(maxAttempts) {
				log.Info("login limiter: blocked", zap.String("ip", ip), zap.Int64("attempts", n))
				tooManyLogins(w, window)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tooManyLogins(w http.ResponseWriter, window time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
	http.Error(w, "too many login attempts", http.StatusTooManyRequests)
}
