package controller

import (
	"context"
	"sync"
	"time"

	"github.com/bartrom653/adaptive-sched/internal/application/usecase"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// TickExecutor runs one control tick.
type TickExecutor interface {
	Execute(ctx context.Context) usecase.TickResult
}

// Runner drives the control loop: exactly one tick at a time on a fixed
// cadence, with a status snapshot readable by the HTTP handler.
type Runner struct {
	tick     TickExecutor
	log      *logger.Logger
	interval time.Duration
	mode     string

	runMu sync.Mutex

	mu         sync.RWMutex
	startedAt  time.Time
	lastRunAt  time.Time
	ticks      uint64
	lastResult usecase.TickResult
}

// Status is a point-in-time view of the controller state.
type Status struct {
	Mode        string        `json:"mode"`
	StartedAt   time.Time     `json:"started_at"`
	LastRunAt   time.Time     `json:"last_run_at"`
	Interval    time.Duration `json:"-"`
	Ticks       uint64        `json:"ticks"`
	HasTarget   bool          `json:"has_target"`
	TargetPID   int32         `json:"target_pid"`
	BoostLevel  int           `json:"boost_level"`
	LastEvicted bool          `json:"last_evicted"`
}

func NewRunner(tick TickExecutor, log *logger.Logger, interval time.Duration, mode string) *Runner {
	return &Runner{
		tick:      tick,
		log:       log,
		interval:  interval,
		mode:      mode,
		startedAt: time.Now(),
	}
}

// Start runs the loop until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.log.Info("Adaptive controller started",
		"mode", r.mode,
		"interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			r.log.Info("Adaptive controller stopped")
			return
		}
	}
}

// RunOnce executes a single control tick.
func (r *Runner) RunOnce(ctx context.Context) usecase.TickResult {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	result := r.tick.Execute(ctx)

	r.mu.Lock()
	r.lastRunAt = time.Now()
	r.ticks++
	r.lastResult = result
	r.mu.Unlock()

	return result
}

// Snapshot returns the current controller status.
func (r *Runner) Snapshot() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Status{
		Mode:        r.mode,
		StartedAt:   r.startedAt,
		LastRunAt:   r.lastRunAt,
		Interval:    r.interval,
		Ticks:       r.ticks,
		HasTarget:   r.lastResult.HasTarget,
		TargetPID:   r.lastResult.TargetPID,
		BoostLevel:  r.lastResult.Boost.Int(),
		LastEvicted: r.lastResult.Evicted,
	}
}
