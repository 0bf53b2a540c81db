package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/procfs"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// SystemCollector собирает общесистемные признаки:
// память, очередь выполнения, load average и давление CPU (PSI).
// Каждый подисточник деградирует независимо: отказавшая метрика
// опускается, остальные собираются
type SystemCollector struct {
	pressurePath string
	log          *logger.Logger
}

// NewSystemCollector создает системный collector
func NewSystemCollector(pressurePath string, log *logger.Logger) *SystemCollector {
	return &SystemCollector{
		pressurePath: pressurePath,
		log:          log,
	}
}

// Collect собирает доступные общесистемные метрики
func (c *SystemCollector) Collect(ctx context.Context) map[string]float64 {
	features := make(map[string]float64)

	vm, err := mem.VirtualMemoryWithContext(ctx)
	switch {
	case err != nil:
		c.log.Debug("Memory stats unavailable", "error", err.Error())
	case vm.Total == 0:
		c.log.Warn("Memory stats report zero total, skipping mem_used_pct")
	default:
		features[valueobject.FeatureMemUsedPct] =
			(1.0 - float64(vm.Available)/float64(vm.Total)) * 100.0
	}

	if misc, err := load.MiscWithContext(ctx); err != nil {
		c.log.Debug("Run queue stats unavailable", "error", err.Error())
	} else {
		features[valueobject.FeatureProcsRunning] = float64(misc.ProcsRunning)
		features[valueobject.FeatureProcsBlocked] = float64(misc.ProcsBlocked)
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		c.log.Debug("Load average unavailable", "error", err.Error())
	} else {
		features[valueobject.FeatureLoadAvg1] = avg.Load1
		features[valueobject.FeatureLoadAvg5] = avg.Load5
		features[valueobject.FeatureLoadAvg15] = avg.Load15
	}

	for name, value := range procfs.ReadCPUPressure(c.pressurePath, c.log) {
		features[name] = value
	}

	return features
}
