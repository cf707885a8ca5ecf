package handler

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

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{"no checks", nil, http.StatusOK, "healthy", map[string]string{}},
		{"all ok", map[string]HealthCheck{"database": ok}, http.StatusOK, "healthy", map[string]string{"database": "ok"}},
		{
			"one failing",
			map[string]HealthCheck{"database": ok, "nats": down},
			http.StatusServiceUnavailable, "unhealthy",
			map[string]string{"database": "ok", "nats": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", NewHealthHandler(tt.checks).Health)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Status string            `json:"status"`
				Time   string            `json:"time"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.NotEmpty(t, body.Time)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}
