package search_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers/search"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type finder struct {
	books   []backend.Book
	err     error
	queries []string
}

func (f *finder) SearchBooks(_ context.Context, title string) ([]backend.Book, error) {
	f.queries = append(f.queries, title)
	return f.books, f.err
}

type reply struct {
	Status string               `json:"status"`
	Count  int                  `json:"count"`
	Data   []search.SuggestItem `json:"data"`
}

func suggest(t *testing.T, f *finder, q url.Values) (int, reply) {
	t.Helper()
	rec := httptest.NewRecorder()
	search.Suggest(f, nil, zap.NewNop())(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?"+q.Encode(), nil))
	var out reply
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestSuggest_RanksPrefixFirst(t *testing.T) {
	f := &finder{books: []backend.Book{
		{BookID: 1, Title: "Прощай, Гульсары"},
		{BookID: 2, Title: "Белый пароход"},
		{BookID: 3, Title: "Буранный полустанок"},
		{BookID: 4, Title: "Материнское поле", Author: &backend.Author{Name: "Айтматов"}},
		{BookID: 5, Title: "Ак кеме"},
	}}

	code, out := suggest(t, f, url.Values{"q": {"  ПО "}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"по"}, f.queries, "query normalized before the backend call")

	ids := make([]int64, 0, len(out.Data))
	for _, it := range out.Data {
		ids = append(ids, it.ID)
	}
	// no prefix match; substring matches first, each group by title
	assert.Equal(t, []int64{3, 4, 5, 2, 1}, ids)
	assert.Equal(t, "Материнское поле - Айтматов", out.Data[1].Label)
	assert.Equal(t, "/books/4", out.Data[1].URL)
	assert.Equal(t, 5, out.Count)
}

func TestSuggest_PrefixBeatsSubstring(t *testing.T) {
	f := &finder{books: []backend.Book{
		{BookID: 1, Title: "Белый пароход"},
		{BookID: 2, Title: "Пароход"},
	}}
	_, out := suggest(t, f, url.Values{"q": {"пар"}})
	require.Len(t, out.Data, 2)
	assert.Equal(t, int64(2), out.Data[0].ID)
}

func TestSuggest_ShortQuerySkipsBackend(t *testing.T) {
	f := &finder{}
	code, out := suggest(t, f, url.Values{"q": {"a"}})
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, out.Count)
	assert.Empty(t, f.queries)
}

func TestSuggest_Limit(t *testing.T) {
	books := make([]backend.Book, 30)
	for i := range books {
		books[i] = backend.Book{BookID: int64(i + 1), Title: "Книга"}
	}
	f := &finder{books: books}

	_, out := suggest(t, f, url.Values{"q": {"кн"}})
	assert.Len(t, out.Data, 10)

	_, out = suggest(t, f, url.Values{"q": {"кн"}, "limit": {"3"}})
	assert.Len(t, out.Data, 3)

	_, out = suggest(t, f, url.Values{"q": {"кн"}, "limit": {"500"}})
	assert.Len(t, out.Data, 10, "out of range falls back to the default")
}

func TestSuggest_BackendError(t *testing.T) {
	code, _ := suggest(t, &finder{err: errors.New("down")}, url.Values{"q": {"книга"}})
	assert.Equal(t, http.StatusBadGateway, code)
}
