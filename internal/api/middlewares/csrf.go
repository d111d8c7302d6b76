package middlewares

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

type CSRFOptions struct {
	TokenHeader    string        // Default: "X-CSRF-Token"
	FieldName      string        // Default: "csrf_token"
	CookieName     string        // Default: "csrf_token"
	CookiePath     string        // Default: "/"
	CookieSecure   bool          // Set to true in production with HTTPS
	CookieSameSite http.SameSite // Default: SameSiteStrictMode
	// Skip exempts requests that authenticate another way (the bearer-token proxy).
	Skip func(*http.Request) bool
}

func DefaultCSRFOptions(secure bool) CSRFOptions {
	return CSRFOptions{
		TokenHeader:    "X-CSRF-Token",
		FieldName:      "csrf_token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	}
}

const ctxKeyCSRF ctxKey = 2

// CSRF is a double-submit check: every page gets a cookie, every form posts
// it back in a hidden field or header.
func CSRF(opts CSRFOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected := ""
			if c, err := r.Cookie(opts.CookieName); err == nil {
				expected = c.Value
			}
			if expected == "" {
				expected = generateCSRFToken()
				setCSRFCookie(w, opts, expected)
			}
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyCSRF, expected))

			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions ||
				(opts.Skip != nil && opts.Skip(r)) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(opts.TokenHeader)
			if provided == "" {
				provided = r.FormValue(opts.FieldName)
			}
			if !isValidCSRFToken(expected, provided) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for hidden form fields.
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}

func setCSRFCookie(w http.ResponseWriter, opts CSRFOptions, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    token,
		Path:     opts.CookiePath,
		Secure:   opts.CookieSecure,
		HttpOnly: true,
		SameSite: opts.CookieSameSite,
	})
}

func generateCSRFToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func isValidCSRFToken(expected, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
