package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		check      Pinger
		wantStatus int
		wantState  string
	}{
		{"healthy", PingerFunc(func(context.Context) error { return nil }), http.StatusOK, "ready"},
		{"database down", PingerFunc(func(context.Context) error { return errors.New("connection refused") }), http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHandler("service-adoption", map[string]Pinger{"database": tt.check}).RegisterRoutes(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body["status"])
		})
	}
}

func TestLive(t *testing.T) {
	r := gin.New()
	NewHandler("service-adoption", nil).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service-adoption"`)
}
