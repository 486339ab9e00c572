package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// check reports whether one dependency is usable.
type check func(ctx context.Context) error

// dependency is a named readiness check. A failing optional dependency is
// reported as degraded without failing readiness.
type dependency struct {
	check    check
	optional bool
}

type pinger interface {
	Ping(ctx context.Context) error
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func readinessChecks(zeebe healthChecker, pg, redis pinger) map[string]dependency {
	return map[string]dependency{
		"zeebe":    {check: zeebe.HealthCheck},
		"postgres": {check: pg.Ping},
		"redis":    {check: redis.Ping, optional: true},
	}
}

func newRouter(checks map[string]dependency) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, dep := range checks {
			err := dep.check(ctx)
			switch {
			case err == nil:
				results[name] = "ok"
			case dep.optional:
				results[name] = "degraded: " + err.Error()
			default:
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
			}
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		writeJSON(w, status, map[string]interface{}{
			"status": state,
			"checks": results,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
