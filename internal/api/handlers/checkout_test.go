package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /user/cart/items": jsonReply([]backend.CartItem{
			{CartItemID: 1, BookID: 3, Quantity: 2, Price: 100},
		}),
	}
}

func checkoutForm() url.Values {
	return url.Values{"phoneNumber": {"0555123456"}, "deliveryAddress": {"Bishkek, Chui 1"}}
}

func TestCheckout_OpensPaymentSession(t *testing.T) {
	routes := cartRoutes()
	routes["POST /user/orders/create"] = jsonReply(backend.CheckoutSession{SessionID: "cs_1", URL: "https://checkout.example/cs_1"})
	h, fb := newHandler(t, routes)

	key := uuid.NewString()
	form := checkoutForm()
	form.Set("idempotencyKey", key)
	rec := httptest.NewRecorder()
	h.Checkout(rec, postForm("/cart/checkout", form, buyer()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-session="cs_1"`)
	assert.Contains(t, rec.Body.String(), `data-key="pk_test"`)

	created := fb.Calls("POST /user/orders/create")
	require.Len(t, created, 1)
	assert.Equal(t, key, created[0].Header.Get("Idempotency-Key"))
	assert.Equal(t, "Bearer tok", created[0].Header.Get("Authorization"))
	assert.Contains(t, created[0].Body, `"bookId":3`)
	assert.Contains(t, created[0].Body, "https://oku.kg/payment/success?session_id={CHECKOUT_SESSION_ID}")
}

func TestCheckout_ReplacesMalformedKey(t *testing.T) {
	routes := cartRoutes()
	routes["POST /user/orders/create"] = jsonReply(backend.CheckoutSession{SessionID: "cs_2"})
	h, fb := newHandler(t, routes)

	form := checkoutForm()
	form.Set("idempotencyKey", "not-a-uuid")
	h.Checkout(httptest.NewRecorder(), postForm("/cart/checkout", form, buyer()))

	created := fb.Calls("POST /user/orders/create")
	require.Len(t, created, 1)
	_, err := uuid.Parse(created[0].Header.Get("Idempotency-Key"))
	assert.NoError(t, err)
}

func TestCheckout_InvalidFormDoesNotCallBackend(t *testing.T) {
	h, fb := newHandler(t, cartRoutes())

	rec := httptest.NewRecorder()
	h.Checkout(rec, postForm("/cart/checkout", url.Values{"phoneNumber": {"0555123456"}}, buyer()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, fb.Calls("POST /user/orders/create"))
}

func TestCheckout_EmptyCart(t *testing.T) {
	h, fb := newHandler(t, map[string]http.HandlerFunc{
		"GET /user/cart/items": jsonReply([]backend.CartItem{
			{CartItemID: 1, BookID: 3, Quantity: 1, Price: 100, Available: ptr(false)},
		}),
	})

	rec := httptest.NewRecorder()
	h.Checkout(rec, postForm("/cart/checkout", checkoutForm(), buyer()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, fb.Calls("POST /user/orders/create"))
}

func TestCheckout_BackendFailures(t *testing.T) {
	tests := []struct {
		name   string
		reply  http.HandlerFunc
		status int
	}{
		{"refused", status(http.StatusForbidden), http.StatusForbidden},
		{"server error", status(http.StatusInternalServerError), http.StatusBadGateway},
		{"no session", jsonReply(map[string]any{}), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := cartRoutes()
			routes["POST /user/orders/create"] = tt.reply
			h, _ := newHandler(t, routes)

			rec := httptest.NewRecorder()
			h.Checkout(rec, postForm("/cart/checkout", checkoutForm(), buyer()))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestPaymentSuccess_ConfirmsOnce(t *testing.T) {
	h, fb := newHandler(t, map[string]http.HandlerFunc{
		"GET /user/payments/confirm": jsonReply(backend.Order{OrderID: 77, DiscountedPrice: 1350}),
	})

	rec := httptest.NewRecorder()
	h.PaymentSuccess(rec, get("/payment/success?session_id=cs_9", buyer()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#77")
	require.NotNil(t, cookieNamed(rec, "cart"), "cart mirror reset after a fresh confirmation")

	rec = httptest.NewRecorder()
	h.PaymentSuccess(rec, get("/payment/success?session_id=cs_9", buyer()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#77")
	assert.Nil(t, cookieNamed(rec, "cart"))

	calls := fb.Calls("GET /user/payments/confirm")
	require.Len(t, calls, 1)
	assert.Equal(t, "cs_9", calls[0].Query.Get("sessionId"))
}

func TestPaymentSuccess_NoSessionGoesHome(t *testing.T) {
	h, fb := newHandler(t, nil)

	rec := httptest.NewRecorder()
	h.PaymentSuccess(rec, get("/payment/success", buyer()))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, fb.Calls("GET /user/payments/confirm"))
}

func TestPaymentSuccess_PendingOffersRetry(t *testing.T) {
	h, _ := newHandler(t, map[string]http.HandlerFunc{
		"GET /user/payments/confirm": status(http.StatusInternalServerError),
	})

	rec := httptest.NewRecorder()
	h.PaymentSuccess(rec, get("/payment/success?session_id=cs_x", buyer()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_id=cs_x")
	assert.Nil(t, cookieNamed(rec, "cart"))
}

func ptr[T any](v T) *T { return &v }
