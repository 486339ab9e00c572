package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error        { return s.err }
func (s stubPinger) HealthCheck(ctx context.Context) error { return s.err }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newRouter(nil), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		zeebe    error
		postgres error
		redis    error
		expected int
		status   string
		redisMsg string
	}{
		{"all up", nil, nil, nil, http.StatusOK, "ready", "ok"},
		{"redis down is degraded but ready", nil, nil, errors.New("dial tcp"), http.StatusOK, "ready", "degraded: dial tcp"},
		{"postgres down", nil, errors.New("connection refused"), nil, http.StatusServiceUnavailable, "not_ready", "ok"},
		{"zeebe down", errors.New("unavailable"), nil, nil, http.StatusServiceUnavailable, "not_ready", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := readinessChecks(stubPinger{tt.zeebe}, stubPinger{tt.postgres}, stubPinger{tt.redis})
			rec, body := get(t, newRouter(checks), "/ready")

			assert.Equal(t, tt.expected, rec.Code)
			assert.Equal(t, tt.status, body["status"])

			results, ok := body["checks"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.redisMsg, results["redis"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := get(t, newRouter(nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
