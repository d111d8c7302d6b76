package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/admin"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/manager"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/search"
	mw "github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/api/router"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type call struct {
	Key    string
	Header http.Header
}

type server struct {
	handler http.Handler
	store   *ledger.Memory

	mu    sync.Mutex
	calls []call
}

func (s *server) Calls(key string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.Key == key {
			out = append(out, c)
		}
	}
	return out
}

func (s *server) Saw(key string) bool { return len(s.Calls(key)) > 0 }

func jsonReply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

// newServer assembles the mux behind the guard, CSRF and HPP layers in the
// order serve uses. Routes without a reply answer with an empty JSON array.
func newServer(t *testing.T, routes map[string]http.HandlerFunc) *server {
	t.Helper()
	s := &server{store: ledger.NewMemory()}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		s.mu.Lock()
		s.calls = append(s.calls, call{Key: key, Header: r.Header.Clone()})
		s.mu.Unlock()
		if h, ok := routes[key]; ok {
			h(w, r)
			return
		}
		jsonReply([]any{})(w, r)
	}))
	t.Cleanup(upstream.Close)

	api, err := backend.New(upstream.URL+"/api", 5*time.Second)
	require.NoError(t, err)
	views, err := web.New(zap.NewNop())
	require.NoError(t, err)
	sessions := session.NewManager(time.Hour, false, nil)
	proxy, err := handlers.NewAPIProxy(upstream.URL+"/api", nil, zap.NewNop())
	require.NoError(t, err)
	csrf := mw.DefaultCSRFOptions(false)
	csrf.Skip = func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, "/api/") }

	var mux *http.ServeMux
	require.NotPanics(t, func() {
		mux = router.Router(router.Deps{
			Store:   handlers.NewHandler(api, sessions, views, storefront.NewReconciler(api, s.store, time.Second, nil), zap.NewNop()),
			Admin:   admin.NewHandler(api, views, nil, nil, s.store, nil, nil, zap.NewNop()),
			Manager: manager.NewHandler(api, views, nil, nil, zap.NewNop()),
			Suggest: search.Suggest(api, nil, zap.NewNop()),
			Proxy:   proxy,
			CSRF:    csrf,
		})
	}, "route patterns must not conflict")

	s.handler = mw.ApplyMiddleware(mux,
		mw.RouteGuard(sessions, zap.NewNop()),
		mw.CSRF(csrf),
		mw.HPP(mw.DefaultHPPOptions()),
	)
	return s
}

func (s *server) do(method, path string, cookies map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	for k, v := range cookies {
		r.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func (s *server) post(path string, form url.Values, cookies map[string]string) *httptest.ResponseRecorder {
	const token = "csrf-test-token"
	form.Set("csrf_token", token)
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	for k, v := range cookies {
		r.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

var (
	buyer   = map[string]string{"token": "tok", "role": "USER"}
	adminer = map[string]string{"token": "t", "role": "ADMIN"}
)

func TestRouter_UnknownPathIs404(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(http.MethodGet, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestRouter_ConsolesAreRoleGated(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodGet, "/manager/orders/mine", map[string]string{"token": "t", "role": "MANAGER"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.Saw("GET /manager/orders/my-orders"))

	rec = s.do(http.MethodGet, "/manager/orders/mine", adminer)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/admin/users", buyer)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}

func TestRouter_EntityRoutesPerKind(t *testing.T) {
	s := newServer(t, nil)
	for _, kind := range admin.EntityKinds {
		rec := s.do(http.MethodGet, "/admin/"+kind, adminer)
		assert.Equal(t, http.StatusOK, rec.Code, kind)
		assert.True(t, s.Saw("GET /admin/"+kind), kind)
	}
}

// The catch-all "/" also matches wrong-method requests, so they get the
// not found page rather than a bare 405.
func TestRouter_WrongMethodFallsThrough(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StaticAndCSRF(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodGet, "/static/checkout.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/csrf-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PostWithoutCSRFTokenIsRefused(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(http.MethodPost, "/cart/clear", buyer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, s.Saw("DELETE /user/cart/clear"))
}

func TestRouter_APIProxy(t *testing.T) {
	s := newServer(t, nil)
	rec := s.do(http.MethodGet, "/api/public/books", map[string]string{"token": "t"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.Saw("GET /public/books"))
}

func TestChain_CheckoutKeepsIdempotencyKey(t *testing.T) {
	s := newServer(t, map[string]http.HandlerFunc{
		"GET /user/cart/items": jsonReply([]backend.CartItem{
			{CartItemID: 1, BookID: 3, Quantity: 2, Price: 100},
		}),
		"POST /user/orders/create": jsonReply(backend.CheckoutSession{SessionID: "cs_1"}),
	})

	key := uuid.NewString()
	form := url.Values{
		"phoneNumber":     {"0555123456"},
		"deliveryAddress": {"Bishkek, Chui 1"},
		"idempotencyKey":  {key},
	}
	for range 2 {
		rec := s.post("/cart/checkout", form, buyer)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	created := s.Calls("POST /user/orders/create")
	require.Len(t, created, 2)
	assert.Equal(t, key, created[0].Header.Get("Idempotency-Key"))
	assert.Equal(t, key, created[1].Header.Get("Idempotency-Key"), "a double submit reuses the key")
}

func TestChain_EntityEditLinkOpensForm(t *testing.T) {
	s := newServer(t, map[string]http.HandlerFunc{
		"GET /admin/genres": jsonReply([]backend.Genre{{GenreID: 3, Name: "Повесть"}}),
	})

	rec := s.do(http.MethodGet, "/admin/genres?edit=3", adminer)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/admin/genres/3"`)
	assert.Contains(t, rec.Body.String(), `value="Повесть"`)
}

func TestChain_AuditFilterByAction(t *testing.T) {
	s := newServer(t, nil)
	require.NoError(t, s.store.InsertAudit(context.Background(),
		ledger.AuditEvent{ActorRole: "ADMIN", Action: "book.delete", Target: "12", CreatedAt: time.Now()},
		ledger.AuditEvent{ActorRole: "ADMIN", Action: "genres.update", Target: "4", CreatedAt: time.Now()},
	))

	rec := s.do(http.MethodGet, "/admin/audit?action=book.delete", adminer)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>book.delete</td>")
	assert.NotContains(t, rec.Body.String(), "genres.update")
}

func TestChain_SuggestHonoursLimit(t *testing.T) {
	s := newServer(t, map[string]http.HandlerFunc{
		"GET /public/books/search": jsonReply([]backend.Book{
			{BookID: 1, Title: "Ак кеме"}, {BookID: 2, Title: "Ак жол"}, {BookID: 3, Title: "Акылман"},
		}),
	})

	q := url.Values{"q": {"ак"}, "limit": {"1"}}
	rec := s.do(http.MethodGet, "/search/suggest?"+q.Encode(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}
