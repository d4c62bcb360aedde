package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"global_low_stock_threshold":10`)

	rec = s.do(t, http.MethodPut, "/api/settings", `{"global_low_stock_threshold":3,"notifications_enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/settings", "")
	assert.Contains(t, rec.Body.String(), `"global_low_stock_threshold":3`)
	assert.Contains(t, rec.Body.String(), `"notifications_enabled":true`)

	rec = s.do(t, http.MethodPut, "/api/settings", `{"global_low_stock_threshold":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPut, "/api/settings", `{"notifications_enabled":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
