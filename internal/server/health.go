package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusMissing      = "not configured"
	healthStatusUnreachable  = "unreachable"
)

// dependencyCheckTimeout bounds all dependency probes of one request.
const dependencyCheckTimeout = 2 * time.Second

// HealthChecker serves the liveness and readiness probes.
//
// Readiness fails while the server is starting or stopping, when no API
// key is configured, and when the cache backend does not answer a ping.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker returns a checker that starts out ready. sc may be nil,
// which skips the dependency checks.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness flag, e.g. before the listener is bound
// and during shutdown.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness flag alone.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

// dependencies probes the credential store and the cache, one entry each.
func (h *HealthChecker) dependencies(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	if h.sc == nil {
		return checks, true
	}
	ctx, cancel := context.WithTimeout(ctx, dependencyCheckTimeout)
	defer cancel()

	ok := true
	checks["credential"] = healthStatusOK
	if !h.sc.HasCredential(ctx) {
		checks["credential"] = healthStatusMissing
		ok = false
	}

	if c := h.sc.Cache(); c != nil {
		checks["cache"] = healthStatusOK
		if err := c.Ping(ctx); err != nil {
			checks["cache"] = healthStatusUnreachable
			ok = false
		}
	}
	return checks, ok
}

// LivenessHandler serves /healthz. It only proves the process answers.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, ok := h.dependencies(r.Context())

		checks["ready"] = healthStatusOK
		if !h.IsReady() {
			checks["ready"] = healthStatusNotReady
			ok = false
		}
		checks["shutdown"] = healthStatusOK
		if h.shuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			ok = false
		}

		if !ok {
			writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
			return
		}
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime and the
// dependency checks.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, ok := h.dependencies(r.Context())
		resp := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: checks,
		}

		code := http.StatusOK
		switch {
		case !h.IsReady() || !ok:
			resp.Status, code = healthStatusNotReady, http.StatusServiceUnavailable
		case h.shuttingDown():
			resp.Status, code = healthStatusShuttingDown, http.StatusServiceUnavailable
		}
		writeHealth(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts the three probe endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

func writeHealth(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
