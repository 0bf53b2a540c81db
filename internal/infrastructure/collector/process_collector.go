package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// ProcessCollector собирает признаки конкретного процесса:
// резидентную и виртуальную память, число потоков и счетчики
// ввода-вывода. Исчезнувший процесс дает пустой набор
type ProcessCollector struct {
	log *logger.Logger
}

// NewProcessCollector создает процессный collector
func NewProcessCollector(log *logger.Logger) *ProcessCollector {
	return &ProcessCollector{log: log}
}

// Collect собирает доступные метрики процесса pid
func (c *ProcessCollector) Collect(ctx context.Context, pid int32) map[string]float64 {
	features := make(map[string]float64)

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		c.log.Debug("Process features unavailable", "pid", pid, "error", err.Error())
		return features
	}

	if mi, err := p.MemoryInfoWithContext(ctx); err != nil {
		c.log.Debug("Process memory info unavailable", "pid", pid, "error", err.Error())
	} else if mi != nil {
		features[valueobject.FeatureProcRSSKB] = float64(mi.RSS / 1024)
		features[valueobject.FeatureProcVMSKB] = float64(mi.VMS / 1024)
	}

	if threads, err := p.NumThreadsWithContext(ctx); err != nil {
		c.log.Debug("Process thread count unavailable", "pid", pid, "error", err.Error())
	} else {
		features[valueobject.FeatureProcThreads] = float64(threads)
	}

	if counters, err := p.IOCountersWithContext(ctx); err != nil {
		c.log.Debug("Process IO counters unavailable", "pid", pid, "error", err.Error())
	} else if counters != nil {
		features[valueobject.FeatureProcReadBytes] = float64(counters.ReadBytes)
		features[valueobject.FeatureProcWriteBytes] = float64(counters.WriteBytes)
	}

	return features
}
