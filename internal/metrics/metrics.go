package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles prometheus collectors used by the controller.
type Metrics struct {
	TicksTotal         prometheus.Counter
	EvictionsTotal     *prometheus.CounterVec
	BoostWritesTotal   prometheus.Counter
	BoostWriteFailures prometheus.Counter
	KernelReadFailures *prometheus.CounterVec
	CandidateMisses    prometheus.Counter
	SinkErrors         prometheus.Counter
	CurrentBoost       prometheus.Gauge
	TargetPID          prometheus.Gauge
	TargetIdleStreak   prometheus.Gauge
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_ticks_total",
			Help: "Total number of control loop ticks.",
		}),
		EvictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_target_evictions_total",
			Help: "Total number of target evictions by reason.",
		}, []string{"reason"}),
		BoostWritesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_boost_writes_total",
			Help: "Total number of boost level writes accepted by the kernel interface.",
		}),
		BoostWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_boost_write_failures_total",
			Help: "Total number of failed boost level writes.",
		}),
		KernelReadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_kernel_read_failures_total",
			Help: "Total number of unavailable kernel metric reads by source.",
		}, []string{"source"}),
		CandidateMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_candidate_misses_total",
			Help: "Total number of ticks with no qualifying target candidate.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_sink_errors_total",
			Help: "Total number of snapshot sink failures.",
		}),
		CurrentBoost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controller_current_boost_level",
			Help: "Last boost level written to the kernel interface.",
		}),
		TargetPID: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controller_target_pid",
			Help: "Currently held target pid (0 when unassigned).",
		}),
		TargetIdleStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controller_target_idle_streak",
			Help: "Consecutive low-CPU samples observed for the held target.",
		}),
	}

	registry.MustRegister(
		m.TicksTotal,
		m.EvictionsTotal,
		m.BoostWritesTotal,
		m.BoostWriteFailures,
		m.KernelReadFailures,
		m.CandidateMisses,
		m.SinkErrors,
		m.CurrentBoost,
		m.TargetPID,
		m.TargetIdleStreak,
	)

	return m
}
