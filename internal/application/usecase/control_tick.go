package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bartrom653/adaptive-sched/internal/application/port"
	"github.com/bartrom653/adaptive-sched/internal/domain/service"
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/internal/metrics"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// ControlTickConfig — параметры одного такта управления
type ControlTickConfig struct {
	// Mode — имя выбранной стратегии (для логов и записей датасета)
	Mode string
	// TargetMinCPU — минимальная доля CPU для принятия новой цели
	TargetMinCPU float64
	// CompetitorMinCPU — более строгий порог для поиска конкурента
	CompetitorMinCPU float64
}

// TickResult — итог одного такта для статистики и статуса
type TickResult struct {
	HasTarget       bool
	TargetPID       int32
	Boost           valueobject.BoostLevel
	BoostApplied    bool
	Evicted         bool
	EvictionReasons []service.EvictionReason
	IdleStreak      int
}

// ControlTickUseCase координирует один такт контура управления:
// чтение метрик → сопровождение цели → решение о бусте → запись в ядро
// → запись датасета. Ни одно из условий не фатально для цикла
type ControlTickUseCase struct {
	kernel       port.KernelInterface
	actuator     port.BoostActuator
	sampler      port.ProcessSampler
	system       port.SystemFeatureCollector
	procFeatures port.ProcessFeatureCollector
	tracker      *service.TargetTracker
	strategy     service.BoostStrategy
	sink         port.SnapshotSink
	metrics      *metrics.Metrics
	logger       *logger.Logger
	cfg          ControlTickConfig
	runID        string
}

// NewControlTickUseCase создает новый use case. sink может быть nil —
// тогда датасет не пишется
func NewControlTickUseCase(
	kernel port.KernelInterface,
	actuator port.BoostActuator,
	sampler port.ProcessSampler,
	system port.SystemFeatureCollector,
	procFeatures port.ProcessFeatureCollector,
	tracker *service.TargetTracker,
	strategy service.BoostStrategy,
	sink port.SnapshotSink,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg ControlTickConfig,
) *ControlTickUseCase {
	return &ControlTickUseCase{
		kernel:       kernel,
		actuator:     actuator,
		sampler:      sampler,
		system:       system,
		procFeatures: procFeatures,
		tracker:      tracker,
		strategy:     strategy,
		sink:         sink,
		metrics:      m,
		logger:       log,
		cfg:          cfg,
		runID:        uuid.New().String(),
	}
}

// RunID возвращает идентификатор текущего запуска контроллера
func (uc *ControlTickUseCase) RunID() string {
	return uc.runID
}

// Execute выполняет один такт управления
func (uc *ControlTickUseCase) Execute(ctx context.Context) TickResult {
	uc.metrics.TicksTotal.Inc()

	// 1. Читаем метрики модуля ядра
	avgLoad, avgOK := uc.kernel.ReadCurrentLoad()
	if !avgOK {
		uc.metrics.KernelReadFailures.WithLabelValues("current_load").Inc()
	}
	maxLoad, maxOK := uc.kernel.ReadMaxLoad()
	if !maxOK {
		uc.metrics.KernelReadFailures.WithLabelValues("max_load").Inc()
	}

	// 2. Собираем общесистемные признаки
	sysFeatures := uc.system.Collect(ctx)

	// 3. Выбираем цель, если она не удерживается
	if !uc.tracker.HasTarget() {
		pid, ok := uc.sampler.PickCandidate(ctx, uc.cfg.TargetMinCPU)
		if !ok {
			uc.logger.Info("No suitable target candidate (CPU too low)")
			uc.metrics.CandidateMisses.Inc()
			uc.metrics.TargetPID.Set(0)
			return TickResult{}
		}

		if err := uc.kernel.WriteTargetPID(pid); err != nil {
			uc.logger.Error("Failed to write target pid", err, "pid", pid)
			return TickResult{}
		}

		uc.tracker.Adopt(pid)
		uc.logger.Info("target_pid set", "pid", pid)
	}

	pid := uc.tracker.Target().PID()

	// 4. Замеряем CPU цели и проверяем условия автопереключения
	procCPU, procOK := uc.sampler.SampleCPU(ctx, pid)
	competitor := uc.probeCompetitor(ctx, pid, procOK)

	obs := uc.tracker.Observe(service.ProcessSample{CPU: procCPU, OK: procOK}, competitor)
	if obs.Evicted {
		// Каждый переход в Unassigned обнуляет буст через актуатор
		uc.applyBoost(valueobject.BoostNone)
		for _, reason := range obs.Reasons {
			uc.metrics.EvictionsTotal.WithLabelValues(string(reason)).Inc()
		}
		uc.metrics.TargetPID.Set(0)
		uc.metrics.TargetIdleStreak.Set(0)
		return TickResult{Evicted: true, EvictionReasons: obs.Reasons, Boost: valueobject.BoostNone}
	}

	uc.metrics.TargetPID.Set(float64(pid))
	uc.metrics.TargetIdleStreak.Set(float64(obs.IdleStreak))

	// 5. Собираем снимок признаков
	snapshot := uc.assembleSnapshot(ctx, pid, avgLoad, avgOK, maxLoad, maxOK, procCPU, procOK, sysFeatures)

	// 6. Решение о бусте по выбранной стратегии
	boost := uc.strategy.Decide(service.DecisionInput{
		AvgLoad:   avgLoad,
		AvgLoadOK: avgOK,
		MaxLoad:   maxLoad,
		MaxLoadOK: maxOK,
		ProcCPU:   procCPU,
		ProcCPUOK: procOK,
		Snapshot:  snapshot,
	})

	// 7. Применяем буст при изменении
	prev, prevKnown := uc.actuator.Last()
	applied := uc.applyBoost(boost)
	if applied && (!prevKnown || prev != boost) {
		uc.logger.Info("boost_level applied",
			"boost", boost.Int(),
			"mode", uc.cfg.Mode,
			"avg", avgLoad,
			"max", maxLoad,
			"proc_cpu", procCPU,
			"mem_used", snapshot.GetOrZero(valueobject.FeatureMemUsedPct),
			"procs_running", snapshot.GetOrZero(valueobject.FeatureProcsRunning),
			"pid", pid)
	} else if applied {
		uc.logger.Debug("boost_level unchanged",
			"boost", boost.Int(),
			"mode", uc.cfg.Mode,
			"proc_cpu", procCPU,
			"pid", pid)
	}

	// 8. Записываем снимок в датасет (best-effort)
	uc.record(ctx, pid, snapshot, boost)

	return TickResult{
		HasTarget:    true,
		TargetPID:    pid,
		Boost:        boost,
		BoostApplied: applied,
		IdleStreak:   obs.IdleStreak,
	}
}

// probeCompetitor ищет более тяжелого конкурента с отдельным порогом CPU
func (uc *ControlTickUseCase) probeCompetitor(ctx context.Context, heldPID int32, heldAlive bool) service.CompetitorSample {
	if !heldAlive {
		return service.CompetitorSample{}
	}

	competitorPID, ok := uc.sampler.PickCandidate(ctx, uc.cfg.CompetitorMinCPU)
	if !ok || competitorPID == heldPID {
		return service.CompetitorSample{}
	}

	cpu, ok := uc.sampler.SampleCPU(ctx, competitorPID)
	if !ok {
		return service.CompetitorSample{}
	}

	return service.CompetitorSample{PID: competitorPID, CPU: cpu, OK: true}
}

// assembleSnapshot собирает признаки такта в один снимок.
// Недоступные avg/max замещаются нулем — так их видит датасет и модель;
// стратегия правил получает доступность отдельными флагами
func (uc *ControlTickUseCase) assembleSnapshot(
	ctx context.Context,
	pid int32,
	avgLoad int, avgOK bool,
	maxLoad int, maxOK bool,
	procCPU float64, procOK bool,
	sysFeatures map[string]float64,
) valueobject.FeatureSnapshot {
	features := make(map[string]float64, len(sysFeatures)+10)
	for name, value := range sysFeatures {
		features[name] = value
	}
	for name, value := range uc.procFeatures.Collect(ctx, pid) {
		features[name] = value
	}

	features[valueobject.FeatureAvgLoad] = 0
	if avgOK {
		features[valueobject.FeatureAvgLoad] = float64(avgLoad)
	}
	features[valueobject.FeatureMaxLoad] = 0
	if maxOK {
		features[valueobject.FeatureMaxLoad] = float64(maxLoad)
	}
	if procOK {
		features[valueobject.FeatureProcCPU] = procCPU
	}
	features[valueobject.FeatureTargetPID] = float64(pid)

	return valueobject.NewFeatureSnapshot(features)
}

func (uc *ControlTickUseCase) applyBoost(level valueobject.BoostLevel) bool {
	prev, prevKnown := uc.actuator.Last()
	if err := uc.actuator.Apply(level); err != nil {
		uc.metrics.BoostWriteFailures.Inc()
		return false
	}

	if !prevKnown || prev != level {
		uc.metrics.BoostWritesTotal.Inc()
	}
	uc.metrics.CurrentBoost.Set(float64(level.Int()))
	return true
}

func (uc *ControlTickUseCase) record(ctx context.Context, pid int32, snapshot valueobject.FeatureSnapshot, boost valueobject.BoostLevel) {
	if uc.sink == nil {
		return
	}

	rec := port.SnapshotRecord{
		RunID:     uc.runID,
		RecordID:  uuid.New().String(),
		Timestamp: time.Now(),
		Mode:      uc.cfg.Mode,
		TargetPID: pid,
		Features:  snapshot,
		Boost:     boost,
	}

	if err := uc.sink.Record(ctx, rec); err != nil {
		uc.logger.Warn("Failed to record snapshot", "error", err.Error())
		uc.metrics.SinkErrors.Inc()
	}
}
