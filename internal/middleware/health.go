package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is one dependency check
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to HealthChecker
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

type pinger interface {
	PingContext(ctx context.Context) error
}

// PingChecker pings a database handle
type PingChecker struct {
	DB pinger
}

func (p PingChecker) Check(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// HealthStatus is the /health response body
type HealthStatus struct {
	Status        string                 `json:"status"`
	Timestamp     time.Time              `json:"timestamp"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Checks        map[string]CheckStatus `json:"checks"`
}

// CheckStatus is one check result
type CheckStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

// runChecks runs every checker in parallel, each bounded by perCheck.
func runChecks(ctx context.Context, checkers map[string]HealthChecker, perCheck time.Duration) (map[string]CheckStatus, bool) {
	var (
		mu      sync.Mutex
		healthy = true
		results = make(map[string]CheckStatus, len(checkers))
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, checker := range checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, perCheck)
			defer cancel()
			start := time.Now()
			err := checker.Check(cctx)
			st := CheckStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "unhealthy"
				st.Message = err.Error()
			}
			mu.Lock()
			results[name] = st
			if err != nil {
				healthy = false
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return results, healthy
}

// HealthHandler reports every dependency with its latency
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, ok := runChecks(r.Context(), checkers, 2*time.Second)
		health := HealthStatus{
			Status:        "healthy",
			Timestamp:     time.Now().UTC(),
			UptimeSeconds: time.Since(globalMetrics.StartTime).Seconds(),
			Checks:        checks,
		}
		statusCode := http.StatusOK
		if !ok {
			health.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// ReadinessHandler answers 503 until every dependency responds
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ready", http.StatusOK
		if _, ok := runChecks(r.Context(), checkers, time.Second); !ok {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    status,
			"timestamp": time.Now().UTC(),
		})
	}
}

// LivenessHandler only proves the process is serving
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
