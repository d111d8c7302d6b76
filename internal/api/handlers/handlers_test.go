package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	Key    string // "METHOD /path"
	Query  url.Values
	Header http.Header
	Body   string
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]http.HandlerFunc
}

func (fb *fakeBackend) Calls(key string) []call {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []call
	for _, c := range fb.calls {
		if c.Key == key {
			out = append(out, c)
		}
	}
	return out
}

func newFakeBackend(t *testing.T, routes map[string]http.HandlerFunc) (*backend.Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		fb.mu.Lock()
		fb.calls = append(fb.calls, call{Key: key, Query: r.URL.Query(), Header: r.Header.Clone(), Body: string(body)})
		fb.mu.Unlock()
		if h, ok := fb.routes[key]; ok {
			h(w, r)
			return
		}
		http.Error(w, `{"message":"no route"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	api, err := backend.New(srv.URL+"/api", 5*time.Second)
	require.NoError(t, err)
	return api, fb
}

func newHandler(t *testing.T, routes map[string]http.HandlerFunc) (*handlers.Handler, *fakeBackend) {
	t.Helper()
	api, fb := newFakeBackend(t, routes)
	views, err := web.New(zap.NewNop())
	require.NoError(t, err)
	h := handlers.NewHandler(api, session.NewManager(time.Hour, false, nil), views,
		storefront.NewReconciler(api, ledger.NewMemory(), time.Second, zap.NewNop()), zap.NewNop())
	h.ClientURL = "https://oku.kg"
	h.PublishableKey = "pk_test"
	return h, fb
}

func jsonReply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, `{"message":"nope"}`)
	}
}

func buyer() session.Session {
	return session.Session{Token: "tok", Role: backend.RoleUser}
}

func get(target string, s session.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(middlewares.WithSession(r.Context(), s))
}

func postForm(target string, form url.Values, s session.Session) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(middlewares.WithSession(r.Context(), s))
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
