// Package health provides the /health, /ready and /live endpoints.
package health

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"sync"
)

// CheckResult represents the result of a health check.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check is a function that performs a health check.
type Check func(ctx context.Context) CheckResult

// Healthy builds a passing result.
func Healthy() CheckResult { return CheckResult{Status: "healthy"} }

// Unhealthy builds a failing result carrying the cause.
func Unhealthy(msg string) CheckResult {
	return CheckResult{Status: "unhealthy", Message: msg}
}

// Checker aggregates named health checks behind HTTP endpoints.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]Check
	started bool
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// RegisterCheck adds a named health check function.
func (h *Checker) RegisterCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetStarted marks the service as started; /ready returns 503 until then.
func (h *Checker) SetStarted(started bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = started
}

// RegisterRoutes registers the health endpoints on mux.
func (h *Checker) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ready", h.handleReady)
	mux.HandleFunc("/live", h.handleLive)
}

func (h *Checker) snapshot() (map[string]Check, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	checks := make(map[string]Check, len(h.checks))
	maps.Copy(checks, h.checks)
	return checks, h.started
}

func (h *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks, _ := h.snapshot()

	overall := "healthy"
	results := make(map[string]CheckResult)
	for name, check := range checks {
		result := check(r.Context())
		results[name] = result
		if result.Status == "unhealthy" {
			overall = "unhealthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if overall == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": overall,
		"checks": results,
	})
}

func (h *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	checks, started := h.snapshot()

	w.Header().Set("Content-Type", "application/json")
	if !started {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
		return
	}
	for _, check := range checks {
		if result := check(r.Context()); result.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
			return
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func (h *Checker) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}
