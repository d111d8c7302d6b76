package middlewares

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/httpx"
)

// CSRFTokenHandler hands the token to scripts that post with fetch.
// It must sit behind CSRF so the cookie and context token exist.
func CSRFTokenHandler(opts CSRFOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := CSRFToken(r.Context())
		if token == "" {
			token = generateCSRFToken()
			setCSRFCookie(w, opts, token)
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
	}
}
