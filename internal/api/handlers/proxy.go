package handlers

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"go.uber.org/zap"
)

// NewAPIProxy forwards /api/* to the backend base URL. Browser cookies are
// never forwarded; callers send their own Authorization header.
func NewAPIProxy(baseURL string, allowedOrigins []string, log *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("api proxy: invalid backend URL %q", baseURL)
	}
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Header.Del("Cookie")
		},
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Del("Set-Cookie")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("api proxy failed",
				zap.String("path", r.URL.Path),
				zap.String("request_id", middlewares.GetRequestID(r)),
				zap.Error(err))
			http.Error(w, "backend unavailable", http.StatusBadGateway)
		},
	}
	return middlewares.Cors(allowedOrigins, log)(http.StripPrefix("/api", rp)), nil
}
