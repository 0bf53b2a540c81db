package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bartrom653/adaptive-sched/internal/application/usecase"
	"github.com/bartrom653/adaptive-sched/internal/controller"
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

type stubExecutor struct {
	result usecase.TickResult
}

func (e *stubExecutor) Execute(_ context.Context) usecase.TickResult {
	return e.result
}

func newTestHandler(t *testing.T) (*StatusHandler, *controller.Runner) {
	t.Helper()

	exec := &stubExecutor{result: usecase.TickResult{
		HasTarget: true,
		TargetPID: 100,
		Boost:     valueobject.BoostHigh,
	}}
	runner := controller.NewRunner(exec, logger.NewWithWriter("error", io.Discard), 500*time.Millisecond, "hybrid")

	registry := prometheus.NewRegistry()
	return NewStatusHandler(runner, registry), runner
}

func TestStatusHandler_Healthz(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestStatusHandler_Status(t *testing.T) {
	h, runner := newTestHandler(t)
	runner.RunOnce(context.Background())

	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body["mode"] != "hybrid" {
		t.Errorf("mode = %v, want hybrid", body["mode"])
	}
	if body["has_target"] != true {
		t.Errorf("has_target = %v, want true", body["has_target"])
	}
	if body["target_pid"].(float64) != 100 {
		t.Errorf("target_pid = %v, want 100", body["target_pid"])
	}
	if body["boost_level"].(float64) != 3 {
		t.Errorf("boost_level = %v, want 3", body["boost_level"])
	}
	if body["interval"] != "500ms" {
		t.Errorf("interval = %v, want 500ms", body["interval"])
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/status", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestStatusHandler_Metrics(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
