package service

import (
	"time"

	"github.com/bartrom653/adaptive-sched/internal/domain/entity"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// EvictionReason — причина сброса удерживаемого процесса
type EvictionReason string

const (
	ReasonProcessGone     EvictionReason = "process_gone"
	ReasonSustainedIdle   EvictionReason = "sustained_idle"
	ReasonHighCompetition EvictionReason = "high_competition"
	ReasonStaleHold       EvictionReason = "stale_hold"
)

// TrackerConfig — пороги гистерезиса для удержания и вытеснения цели
type TrackerConfig struct {
	// IdleCPUThreshold — ниже этой доли CPU замер считается «сонным»
	IdleCPUThreshold float64
	// IdleStreakLimit — сколько «сонных» замеров подряд вытесняют цель
	IdleStreakLimit int
	// CompetitionMargin — на сколько пунктов конкурент должен обгонять цель
	CompetitionMargin float64
	// HoldTime — после этого срока слабая цель считается залежавшейся
	HoldTime time.Duration
	// StaleCPUThreshold — порог слабости для залежавшейся цели
	StaleCPUThreshold float64
}

// DefaultTrackerConfig возвращает пороги, совместимые с ядерным модулем
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		IdleCPUThreshold:  2.0,
		IdleStreakLimit:   4,
		CompetitionMargin: 30.0,
		HoldTime:          10 * time.Second,
		StaleCPUThreshold: 5.0,
	}
}

// ProcessSample — замер CPU удерживаемого процесса. OK=false означает,
// что процесс исчез или замер не удался
type ProcessSample struct {
	CPU float64
	OK  bool
}

// CompetitorSample — замер кандидата-конкурента, найденного с более
// строгим порогом CPU
type CompetitorSample struct {
	PID int32
	CPU float64
	OK  bool
}

// Observation — результат одного такта наблюдения за целью
type Observation struct {
	Evicted    bool
	Reasons    []EvictionReason
	IdleStreak int
}

// TargetTracker владеет состоянием удерживаемой цели и решает, когда
// ее вытеснить (автопереключение). Проверки вытеснения выполняются в
// фиксированном порядке: исчезновение → простой → конкуренция →
// залежавшееся удержание; в лог попадают все сработавшие причины
type TargetTracker struct {
	cfg    TrackerConfig
	target *entity.Target
	now    func() time.Time
	log    *logger.Logger
}

// NewTargetTracker создает трекер цели
func NewTargetTracker(cfg TrackerConfig, log *logger.Logger) *TargetTracker {
	return &TargetTracker{
		cfg: cfg,
		now: time.Now,
		log: log,
	}
}

// HasTarget сообщает, удерживается ли сейчас цель
func (t *TargetTracker) HasTarget() bool {
	return t.target != nil
}

// Target возвращает текущую цель или nil
func (t *TargetTracker) Target() *entity.Target {
	return t.target
}

// Adopt принимает новый процесс: обнуляет серию простоя и таймер удержания
func (t *TargetTracker) Adopt(pid int32) {
	t.target = entity.NewTarget(pid, t.now())
	t.log.Info("Target adopted", "pid", pid)
}

// Release сбрасывает цель в состояние «не назначена»
func (t *TargetTracker) Release() {
	t.target = nil
}

// Observe обрабатывает один такт наблюдения за удерживаемой целью.
// При вытеснении цель сбрасывается; обнуление буста — обязанность
// вызывающего цикла
func (t *TargetTracker) Observe(sample ProcessSample, competitor CompetitorSample) Observation {
	if t.target == nil {
		return Observation{}
	}

	pid := t.target.PID()

	if !sample.OK {
		t.log.Info("Target process is gone, resetting", "pid", pid)
		t.Release()
		return Observation{Evicted: true, Reasons: []EvictionReason{ReasonProcessGone}}
	}

	streak := t.target.ObserveCPU(sample.CPU, t.cfg.IdleCPUThreshold)

	reasons := make([]EvictionReason, 0, 3)

	if streak >= t.cfg.IdleStreakLimit {
		reasons = append(reasons, ReasonSustainedIdle)
	}

	if competitor.OK && competitor.PID != pid && competitor.CPU > sample.CPU+t.cfg.CompetitionMargin {
		reasons = append(reasons, ReasonHighCompetition)
	}

	if t.target.HoldDuration(t.now()) > t.cfg.HoldTime && sample.CPU < t.cfg.StaleCPUThreshold {
		reasons = append(reasons, ReasonStaleHold)
	}

	if len(reasons) > 0 {
		t.log.Info("Auto-switching target",
			"pid", pid,
			"proc_cpu", sample.CPU,
			"idle_streak", streak,
			"reasons", joinReasons(reasons))
		t.Release()
		return Observation{Evicted: true, Reasons: reasons, IdleStreak: streak}
	}

	return Observation{IdleStreak: streak}
}

func joinReasons(reasons []EvictionReason) string {
	joined := ""
	for i, r := range reasons {
		if i > 0 {
			joined += ","
		}
		joined += string(r)
	}
	return joined
}
