package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathParam(t *testing.T) {
	cases := []struct {
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"/api/accounts/acc-1", "/api/accounts/", "", "acc-1"},
		{"/api/accounts/acc-1/balance", "/api/accounts/", "/balance", "acc-1"},
		{"/api/accounts/acc-1/balance", "/api/accounts/", "", "acc-1"},
		{"/api/debts/d1", "/api/accounts/", "", ""},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		assert.Equal(t, tc.want, PathParam(r, tc.prefix, tc.suffix), "path %s", tc.path)
	}
}

func TestDecodeJSONLimitsBodySize(t *testing.T) {
	big := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	w := httptest.NewRecorder()

	var v struct {
		Name string `json:"name"`
	}
	ok := DecodeJSON(w, r, &v)
	require.False(t, ok, "oversized body must be rejected")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusNotFound, "no such thing")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"no such thing"}`, w.Body.String())
}
