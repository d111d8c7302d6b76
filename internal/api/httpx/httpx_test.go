package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/oku-storefront/internal/api/httpx"
	"github.com/stretchr/testify/assert"
)

func TestList_NilIsEmptyArray(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.List[string](w, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","count":0,"data":[]}`, w.Body.String())
}

func TestErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.ErrorJSON(w, http.StatusBadGateway, "search unavailable")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"error","error":"search unavailable"}`, w.Body.String())
}
