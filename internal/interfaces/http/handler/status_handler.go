package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bartrom653/adaptive-sched/internal/controller"
)

// StatusHandler exposes the controller state and prometheus metrics.
type StatusHandler struct {
	runner   *controller.Runner
	registry *prometheus.Registry
}

func NewStatusHandler(runner *controller.Runner, registry *prometheus.Registry) *StatusHandler {
	return &StatusHandler{
		runner:   runner,
		registry: registry,
	}
}

func (h *StatusHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", h.healthz)
	mux.HandleFunc("/status", h.status)
	mux.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	return mux
}

func (h *StatusHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.runner.Snapshot()

	response := map[string]string{
		"status":   "ok",
		"uptime":   time.Since(snapshot.StartedAt).Round(time.Second).String(),
		"last_run": snapshot.LastRunAt.UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *StatusHandler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.runner.Snapshot()

	response := map[string]interface{}{
		"mode":         snapshot.Mode,
		"uptime":       time.Since(snapshot.StartedAt).Round(time.Second).String(),
		"interval":     snapshot.Interval.String(),
		"ticks":        snapshot.Ticks,
		"has_target":   snapshot.HasTarget,
		"target_pid":   snapshot.TargetPID,
		"boost_level":  snapshot.BoostLevel,
		"last_evicted": snapshot.LastEvicted,
		"last_run_at":  snapshot.LastRunAt.UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
