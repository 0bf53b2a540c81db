package valueobject

import "sort"

// Имена метрик, из которых собирается снимок признаков.
// Набор соответствует схеме датасета для офлайн-обучения.
const (
	FeatureAvgLoad        = "avg_load"
	FeatureMaxLoad        = "max_load"
	FeatureProcCPU        = "proc_cpu"
	FeatureTargetPID      = "target_pid"
	FeatureMemUsedPct     = "mem_used_pct"
	FeatureProcsRunning   = "procs_running"
	FeatureProcsBlocked   = "procs_blocked"
	FeatureLoadAvg1       = "loadavg1"
	FeatureLoadAvg5       = "loadavg5"
	FeatureLoadAvg15      = "loadavg15"
	FeaturePSICPUSome     = "psi_cpu_some"
	FeaturePSICPUFull     = "psi_cpu_full"
	FeatureProcRSSKB      = "proc_rss_kb"
	FeatureProcVMSKB      = "proc_vms_kb"
	FeatureProcThreads    = "proc_threads"
	FeatureProcReadBytes  = "proc_read_bytes"
	FeatureProcWriteBytes = "proc_write_bytes"
)

// FeatureSnapshot — иммутабельный снимок именованных метрик за один
// цикл контроллера (Value Object). Недоступные метрики отсутствуют
// в снимке, а не заменяются нулями
type FeatureSnapshot struct {
	values map[string]float64
}

// NewFeatureSnapshot создает снимок из набора метрик (копирует map)
func NewFeatureSnapshot(values map[string]float64) FeatureSnapshot {
	copied := make(map[string]float64, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return FeatureSnapshot{values: copied}
}

// Get возвращает значение метрики и признак ее наличия
func (s FeatureSnapshot) Get(name string) (float64, bool) {
	value, ok := s.values[name]
	return value, ok
}

// GetOrZero возвращает значение метрики или 0, если метрика отсутствует
func (s FeatureSnapshot) GetOrZero(name string) float64 {
	return s.values[name]
}

// Has проверяет наличие метрики в снимке
func (s FeatureSnapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Len возвращает количество метрик в снимке
func (s FeatureSnapshot) Len() int {
	return len(s.values)
}

// Names возвращает отсортированный список имен метрик
func (s FeatureSnapshot) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values возвращает копию всех метрик снимка
func (s FeatureSnapshot) Values() map[string]float64 {
	copied := make(map[string]float64, len(s.values))
	for name, value := range s.values {
		copied[name] = value
	}
	return copied
}
