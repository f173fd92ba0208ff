package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sci-insight/sci-api/internal/api"
	"github.com/sci-insight/sci-api/internal/config"
)

func newTestServer() *api.Server {
	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			BaseURL:       "localhost:8080",
			JWTSigningKey: "server-test-signing-key",
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
	}

	// Handlers are wired but no query runs in these tests, so no live
	// database connection is needed.
	return api.NewServer(conf, nil)
}

func decodeDetail(t *testing.T, body string) string {
	t.Helper()

	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	return resp.Detail
}

func TestRouterFallbacks(t *testing.T) {
	s := newTestServer()

	t.Run("unknown route renders the bare detail envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/no-such-resource", nil)
		s.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not found", decodeDetail(t, w.Body.String()))
	})

	t.Run("wrong method renders a 405 detail envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/competitions", nil)
		s.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "method not allowed", decodeDetail(t, w.Body.String()))
	})

	t.Run("healthcheck still answers at the root", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
