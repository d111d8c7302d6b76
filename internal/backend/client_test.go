package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Header http.Header
	Body   string
}

// fakeBackend records every call and answers from routes keyed by
// "METHOD /path".
type fakeBackend struct {
	mu     sync.Mutex
	calls  []recorded
	routes map[string]http.HandlerFunc
}

func newFake(t *testing.T, routes map[string]http.HandlerFunc) (*Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, recorded{
			Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api"), Query: r.URL.RawQuery,
			Auth: r.Header.Get("Authorization"), Header: r.Header.Clone(), Body: string(body),
		})
		fb.mu.Unlock()
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		if h, ok := fb.routes[key]; ok {
			h(w, r)
			return
		}
		http.Error(w, `{"message":"no route"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", 5*time.Second)
	require.NoError(t, err)
	return c, fb
}

func (fb *fakeBackend) Calls() []recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recorded(nil), fb.calls...)
}

func jsonReply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	_, err := New("/api", time.Second)
	assert.Error(t, err)
}

func TestClient_SendsBearerAndDecodes(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"GET /user/profile": jsonReply(map[string]any{"email": "a@oku.kg", "username": "aida", "birthDate": []int{2000, 5, 17}, "gender": false}),
	})

	p, err := c.Profile(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, "aida", p.Username)
	assert.Equal(t, "2000-05-17", p.BirthDate.Day())
	require.NotNil(t, p.Gender)
	assert.False(t, *p.Gender)

	calls := fb.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer tok123", calls[0].Auth)
}

func TestClient_PublicCallsCarryNoToken(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"GET /public/books/search": jsonReply([]Book{{BookID: 1, Title: "Манас"}}),
	})
	books, err := c.SearchBooks(context.Background(), "Манас")
	require.NoError(t, err)
	require.Len(t, books, 1)

	calls := fb.Calls()
	assert.Empty(t, calls[0].Auth)
	assert.Equal(t, "title=%D0%9C%D0%B0%D0%BD%D0%B0%D1%81", calls[0].Query)
}

func TestAPIError_Sentinels(t *testing.T) {
	c, _ := newFake(t, map[string]http.HandlerFunc{
		"GET /user/profile":  status(http.StatusForbidden, `{"message":"Access Denied"}`),
		"GET /user/orders/7": status(http.StatusNotFound, "order not found"),
		"POST /auth/login":   status(http.StatusInternalServerError, "<html>boom</html>"),
	})

	_, err := c.Profile(context.Background(), "t")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Access Denied", MessageOf(err))
	assert.Equal(t, http.StatusForbidden, StatusOf(err))

	_, err = c.Order(context.Background(), "t", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "order not found", MessageOf(err))

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.kg", Password: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, MessageOf(err))
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api", 200*time.Millisecond)
	require.NoError(t, err)
	_, err = c.PublicBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestResource_CRUDPaths(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"GET /admin/genres":      jsonReply([]Genre{{GenreID: 1, Name: "Роман"}}),
		"GET /admin/genres/1":    jsonReply(Genre{GenreID: 1, Name: "Роман"}),
		"POST /admin/genres":     jsonReply(Genre{GenreID: 2, Name: "Поэзия"}),
		"PUT /admin/genres/2":    jsonReply(Genre{GenreID: 2, Name: "Ыр"}),
		"DELETE /admin/genres/2": status(http.StatusNoContent, ""),
	})
	ctx := context.Background()

	list, err := c.Genres.List(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	g, err := c.Genres.Get(ctx, "t", 1)
	require.NoError(t, err)
	assert.Equal(t, "Роман", g.Name)

	g, err = c.Genres.Create(ctx, "t", Genre{Name: "Поэзия"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, g.GenreID)

	g, err = c.Genres.Update(ctx, "t", 2, Genre{Name: "Ыр"})
	require.NoError(t, err)
	assert.Equal(t, "Ыр", g.Name)

	require.NoError(t, c.Genres.Delete(ctx, "t", 2))

	calls := fb.Calls()
	require.Len(t, calls, 5)
	assert.JSONEq(t, `{"name":"Поэзия"}`, calls[2].Body)
}

func TestResource_PageForwardsPaging(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"GET /admin/books": jsonReply(Page[Book]{Content: []Book{{BookID: 9}}, TotalPages: 3, TotalElements: 21, Size: 10, Number: 1}),
	})
	p, err := c.Books.Page(context.Background(), "t", PageRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, "page=1&size=10", fb.Calls()[0].Query)
}

func TestDecodeList_ArrayOrPage(t *testing.T) {
	items, err := decodeList[Tag](json.RawMessage(`[{"tagId":1,"name":"a"}]`))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = decodeList[Tag](json.RawMessage(`{"content":[{"tagId":1},{"tagId":2}],"totalPages":1}`))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = decodeList[Tag](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecodePage(t *testing.T) {
	orders := func(n int) []Order {
		out := make([]Order, n)
		for i := range out {
			out[i] = Order{OrderID: int64(i + 1)}
		}
		return out
	}
	raw := func(v any) json.RawMessage {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name    string
		body    json.RawMessage
		req     PageRequest
		pages   int
		content int
	}{
		{"page object", raw(Page[Order]{Content: orders(5), TotalPages: 7}), PageRequest{Page: 1, Size: 5}, 7, 5},
		{"full array offers next", raw(orders(5)), PageRequest{Page: 1, Size: 5}, 3, 5},
		{"short array is last", raw(orders(2)), PageRequest{Page: 1, Size: 5}, 2, 2},
		{"unpaged array sliced locally", raw(orders(12)), PageRequest{Page: 2, Size: 5}, 3, 2},
		{"null", json.RawMessage("null"), PageRequest{Page: 0, Size: 5}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := decodePage[Order](tt.body, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, p.TotalPages)
			assert.Len(t, p.Content, tt.content)
			assert.NotNil(t, p.Content)
		})
	}
}

func TestEnrichedCart_KeepsBareItemOnDetailFailure(t *testing.T) {
	dp := 450.0
	c, _ := newFake(t, map[string]http.HandlerFunc{
		"GET /user/cart/items": jsonReply([]CartItem{
			{CartItemID: 1, BookID: 10, Quantity: 2, Price: 500},
			{CartItemID: 2, BookID: 11, Quantity: 1, Price: 300},
		}),
		"GET /public/books/10": jsonReply(Book{BookID: 10, Title: "Жамийла", Price: 500, DiscountPrice: &dp}),
		"GET /public/books/11": status(http.StatusInternalServerError, "down"),
	})

	items, err := c.EnrichedCart(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Жамийла", items[0].Title)
	assert.Equal(t, 450.0, items[0].UnitPrice())
	assert.Empty(t, items[1].Title)
	assert.Equal(t, 300.0, items[1].UnitPrice())
}

func TestCartItemMerge_KeepsLineValuesTheBookLacks(t *testing.T) {
	lineDiscount, bookDiscount := 90.0, 80.0
	item := CartItem{BookID: 3, Price: 120, DiscountPrice: &lineDiscount, ImageURL: "line.png", AuthorName: "Айтматов"}

	item.Merge(Book{BookID: 3, Title: "Ак кеме", Price: 110})
	assert.Equal(t, "Ак кеме", item.Title)
	assert.Equal(t, 110.0, item.Price)
	require.NotNil(t, item.DiscountPrice)
	assert.Equal(t, 90.0, item.UnitPrice())
	assert.Equal(t, "line.png", item.ImageURL)
	assert.Equal(t, "Айтматов", item.AuthorName)

	item.Merge(Book{BookID: 3, Title: "Ак кеме", Price: 110, DiscountPrice: &bookDiscount, CoverImage: "cover.png"})
	assert.Equal(t, 80.0, item.UnitPrice())
	assert.Equal(t, "cover.png", item.ImageURL)
}

func TestSaveBook_AttachesGenresAndTagsIgnoringFailures(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"POST /admin/books":           jsonReply(Book{BookID: 42, Title: "Ак кеме"}),
		"POST /admin/books/42/genre/1": status(http.StatusOK, ""),
		"POST /admin/books/42/genre/2": status(http.StatusConflict, "already"),
		"POST /admin/books/42/tag/5":   status(http.StatusOK, ""),
	})

	b, err := c.SaveBook(context.Background(), "t", 0, BookInput{Title: "Ак кеме", Price: 700}, []int64{1, 2}, []int64{5})
	require.NoError(t, err)
	assert.EqualValues(t, 42, b.BookID)

	var paths []string
	for _, call := range fb.Calls() {
		paths = append(paths, call.Method+" "+call.Path)
	}
	assert.Equal(t, []string{
		"POST /admin/books",
		"POST /admin/books/42/genre/1",
		"POST /admin/books/42/genre/2",
		"POST /admin/books/42/tag/5",
	}, paths)
}

func TestSaveDiscount_RequiresID(t *testing.T) {
	c, _ := newFake(t, map[string]http.HandlerFunc{
		"POST /admin/discounts": jsonReply(map[string]any{"discountName": "Жаз"}),
	})
	_, err := c.SaveDiscount(context.Background(), "t", 0, DiscountInput{DiscountName: "Жаз"})
	assert.Error(t, err)
}

func TestDeleteManager_IgnoresTokenCleanupAndFlagsFK(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"DELETE /admin/email-tokens/3": status(http.StatusNotFound, ""),
		"DELETE /admin/managers/3":     status(http.StatusInternalServerError, `{"message":"could not execute statement; violates foreign key constraint"}`),
		"DELETE /admin/email-tokens/4": status(http.StatusOK, ""),
		"DELETE /admin/managers/4":     status(http.StatusOK, ""),
	})

	err := c.DeleteManager(context.Background(), "t", 3)
	assert.ErrorIs(t, err, ErrManagerReferenced)

	require.NoError(t, c.DeleteManager(context.Background(), "t", 4))
	assert.Len(t, fb.Calls(), 4)
}

func TestRegisterManager_ForcesRole(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"POST /admin/managers/register": jsonReply(User{UserID: 5}),
	})
	_, err := c.RegisterManager(context.Background(), "t", ManagerInput{Email: "m@oku.kg", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Contains(t, fb.Calls()[0].Body, `"role":"MANAGER"`)
}

func TestCreateOrder_SendsIdempotencyKey(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"POST /user/orders/create": jsonReply(CheckoutSession{SessionID: "cs_test_1"}),
	})
	s, err := c.CreateOrder(context.Background(), "t", "key-1", OrderRequest{
		PhoneNumber: "+996555000111",
		SelfPickup:  true,
		SuccessURL:  "https://oku.kg/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   "https://oku.kg/payment/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.SessionID)
	call := fb.Calls()[0]
	assert.Equal(t, "key-1", call.Header.Get("Idempotency-Key"))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.Body), &body))
	assert.Equal(t, "https://oku.kg/payment/success?session_id={CHECKOUT_SESSION_ID}", body["success_url"])
	assert.Equal(t, "https://oku.kg/payment/cancel", body["cancel_url"])
}

func TestBooksByTagName(t *testing.T) {
	c, fb := newFake(t, map[string]http.HandlerFunc{
		"GET /public/books/tags":   jsonReply([]Tag{{TagID: 3, Name: "Бестселлер"}}),
		"GET /public/books/tags/3": jsonReply([]Book{{BookID: 1}, {BookID: 2}}),
	})
	books, err := c.BooksByTagName(context.Background(), "бестселлер")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = c.BooksByTagName(context.Background(), "жок")
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Len(t, fb.Calls(), 3)
}

func TestCompletedOrders_MergesSortsAndPaginates(t *testing.T) {
	mk := func(id int64, day int) Order {
		return Order{OrderID: id, CreatedAt: FlexTime{Time: time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC), Valid: true}}
	}
	var calls atomic.Int32
	fetch := func(ctx context.Context, token string, s OrderStatus, p PageRequest) ([]Order, error) {
		calls.Add(1)
		assert.Equal(t, 6, p.Size)
		if s == StatusPickedUp {
			return []Order{mk(1, 1), mk(3, 3)}, nil
		}
		return []Order{mk(2, 2), mk(4, 4), {OrderID: 5}}, nil
	}

	page, err := CompletedOrders(context.Background(), fetch, "t", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.NumberOfElements)
	assert.EqualValues(t, 4, page.Content[0].OrderID)
	assert.EqualValues(t, 3, page.Content[1].OrderID)

	last, err := CompletedOrders(context.Background(), fetch, "t", 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Content, 1)
	assert.EqualValues(t, 5, last.Content[0].OrderID)
}

func TestCompletedOrders_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, token string, s OrderStatus, p PageRequest) ([]Order, error) {
		if s == StatusDelivered {
			return nil, boom
		}
		return nil, nil
	}
	_, err := CompletedOrders(context.Background(), fetch, "t", 0, 5)
	assert.ErrorIs(t, err, boom)
}

func TestSlice_OutOfRange(t *testing.T) {
	p := Slice([]int{1, 2, 3}, 5, 2)
	assert.Empty(t, p.Content)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, 3, p.TotalElements)
}

func TestStatistics_AcceptsBothAverageKeys(t *testing.T) {
	var s Statistics
	require.NoError(t, json.Unmarshal([]byte(`{"totalOrders":4,"averageProcessingTimeInHours":12.5}`), &s))
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 12.5, s.AvgProcessingHours)
}
