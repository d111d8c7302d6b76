package middlewares

import "net/http"

type Middleware func(http.Handler) http.Handler

// ApplyMiddleware wraps h so that the last middleware listed runs first.
func ApplyMiddleware(h http.Handler, mws ...Middleware) http.Handler {
	for _, m := range mws {
		if m == nil {
			continue
		}
		h = m(h)
	}
	return h
}
