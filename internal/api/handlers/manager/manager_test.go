package manager_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers/manager"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fake struct {
	mu     sync.Mutex
	hits   map[string][]url.Values
	routes map[string]http.HandlerFunc
}

func (f *fake) Hits(key string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func newManager(t *testing.T, routes map[string]http.HandlerFunc) (*manager.Handler, *fake) {
	t.Helper()
	f := &fake{hits: map[string][]url.Values{}, routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		f.mu.Lock()
		f.hits[key] = append(f.hits[key], r.URL.Query())
		f.mu.Unlock()
		if h, ok := f.routes[key]; ok {
			h(w, r)
			return
		}
		http.Error(w, `{"message":"no route"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	api, err := backend.New(srv.URL+"/api", 5*time.Second)
	require.NoError(t, err)
	views, err := web.New(zap.NewNop())
	require.NoError(t, err)
	return manager.NewHandler(api, views, nil, nil, zap.NewNop()), f
}

func jsonReply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func post(target string, form url.Values, id string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.SetPathValue("id", id)
	s := session.Session{Token: "mgr", Role: backend.RoleManager}
	return r.WithContext(middlewares.WithSession(r.Context(), s))
}

func myOrders(orders ...backend.Order) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /manager/orders/my-orders": jsonReply(orders),
		"POST /manager/orders/3/status": ok,
	}
}

func TestUpdateStatus_AcceptsOnlyNextStage(t *testing.T) {
	tests := []struct {
		name    string
		order   backend.Order
		want    string
		code    int
		updated bool
	}{
		{"pending to processing", backend.Order{OrderID: 3, Status: backend.StatusPending}, "PROCESSING", http.StatusSeeOther, true},
		{"shipped to delivered", backend.Order{OrderID: 3, Status: backend.StatusShipped}, "DELIVERED", http.StatusSeeOther, true},
		{"pickup shipped to picked up", backend.Order{OrderID: 3, Status: backend.StatusShipped, SelfPickup: true}, "PICKED_UP", http.StatusSeeOther, true},
		{"skipping a stage", backend.Order{OrderID: 3, Status: backend.StatusPending}, "SHIPPED", http.StatusConflict, false},
		{"pickup cannot be delivered", backend.Order{OrderID: 3, Status: backend.StatusShipped, SelfPickup: true}, "DELIVERED", http.StatusConflict, false},
		{"finished order", backend.Order{OrderID: 3, Status: backend.StatusDelivered}, "PICKED_UP", http.StatusConflict, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, f := newManager(t, myOrders(tt.order))

			rec := httptest.NewRecorder()
			h.UpdateStatus(rec, post("/manager/orders/3/status", url.Values{"newStatus": {tt.want}}, "3"))

			assert.Equal(t, tt.code, rec.Code)
			hits := f.Hits("POST /manager/orders/3/status")
			if !tt.updated {
				assert.Empty(t, hits)
				return
			}
			require.Len(t, hits, 1)
			assert.Equal(t, tt.want, hits[0].Get("newStatus"))
		})
	}
}

func TestUpdateStatus_ForeignOrder(t *testing.T) {
	h, f := newManager(t, myOrders(backend.Order{OrderID: 4, Status: backend.StatusPending}))

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, post("/manager/orders/3/status", url.Values{"newStatus": {"PROCESSING"}}, "3"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.Hits("POST /manager/orders/3/status"))
}

func TestDeliveryCost(t *testing.T) {
	h, f := newManager(t, map[string]http.HandlerFunc{"POST /manager/orders/3/delivery-cost": ok})

	for _, bad := range []string{"", "free", "-1"} {
		rec := httptest.NewRecorder()
		h.DeliveryCost(rec, post("/manager/orders/3/delivery-cost", url.Values{"deliveryCost": {bad}}, "3"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	assert.Empty(t, f.Hits("POST /manager/orders/3/delivery-cost"))

	rec := httptest.NewRecorder()
	h.DeliveryCost(rec, post("/manager/orders/3/delivery-cost", url.Values{"deliveryCost": {"150,5"}}, "3"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	hits := f.Hits("POST /manager/orders/3/delivery-cost")
	require.Len(t, hits, 1)
	assert.Equal(t, "150.5", hits[0].Get("deliveryCost"))
}

func TestByStatus_InvalidRedirects(t *testing.T) {
	h, _ := newManager(t, nil)
	r := httptest.NewRequest(http.MethodGet, "/manager/orders?status=lost", nil)
	rec := httptest.NewRecorder()
	h.ByStatus(rec, r.WithContext(middlewares.WithSession(r.Context(), session.Session{Token: "mgr", Role: backend.RoleManager})))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/manager/orders/mine", rec.Header().Get("Location"))
}

func getAsManager(target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(middlewares.WithSession(r.Context(), session.Session{Token: "mgr", Role: backend.RoleManager}))
}

func TestByStatus_Paginates(t *testing.T) {
	h, f := newManager(t, map[string]http.HandlerFunc{
		"GET /manager/orders/status/SHIPPED": jsonReply(backend.Page[backend.Order]{
			Content:    []backend.Order{{OrderID: 21, Status: backend.StatusShipped}},
			TotalPages: 3,
		}),
	})

	rec := httptest.NewRecorder()
	h.ByStatus(rec, getAsManager("/manager/orders?status=shipped&page=2&size=5"))

	require.Equal(t, http.StatusOK, rec.Code)
	hits := f.Hits("GET /manager/orders/status/SHIPPED")
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].Get("page"))
	assert.Equal(t, "5", hits[0].Get("size"))

	body := rec.Body.String()
	assert.Contains(t, body, `class="pager"`)
	assert.Contains(t, body, "page=3&amp;size=5&amp;status=shipped")
	assert.Contains(t, body, "page=1&amp;size=5&amp;status=shipped")
}

func TestByStatus_FullArrayOffersNextPage(t *testing.T) {
	orders := make([]backend.Order, 5)
	for i := range orders {
		orders[i] = backend.Order{OrderID: int64(i + 1), Status: backend.StatusPending}
	}
	h, _ := newManager(t, map[string]http.HandlerFunc{
		"GET /manager/orders/status/PENDING": jsonReply(orders),
	})

	rec := httptest.NewRecorder()
	h.ByStatus(rec, getAsManager("/manager/orders?status=PENDING&size=5"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "page=2&amp;size=5&amp;status=PENDING")
}
