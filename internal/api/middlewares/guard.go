package middlewares

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/routeguard"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"go.uber.org/zap"
)

// RouteGuard resolves the session for every request and redirects page
// requests that the cookies do not allow. Bypassed paths only get the session.
func RouteGuard(sessions *session.Manager, log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Read(r)
			r = r.WithContext(WithSession(r.Context(), s))

			if routeguard.Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			d := routeguard.Decide(r.URL.Path, s.Token, string(s.Role))
			log.Debug("route guard",
				zap.String("path", r.URL.Path),
				zap.Stringer("class", d.Class),
				zap.Bool("token", s.LoggedIn()),
				zap.String("role", string(s.Role)),
				zap.String("redirect", d.Redirect),
			)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}
			if d.ClearAuth {
				sessions.ClearAuth(w)
			}
			http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
		})
	}
}
