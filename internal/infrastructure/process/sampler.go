package process

import (
	"context"
	"sort"
	"strings"

	gops "github.com/shirou/gopsutil/v3/process"

	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// Entry — одна строка таблицы процессов: pid, имя команды и доля CPU
type Entry struct {
	PID  int32
	Name string
	CPU  float64
}

// Sampler реализует port.ProcessSampler поверх gopsutil.
// Точечный замер доли CPU (вместо дельт по сырым счетчикам) меняет
// точность на простоту: контроллеру нужны грубые уровни, а не
// точные проценты
type Sampler struct {
	excludePrefixes []string
	log             *logger.Logger
}

// NewSampler создает сэмплер процессов. excludePrefixes — префиксы имен
// команд, которые никогда не выбираются в цели (служебные демоны
// планировщика и процессы рабочего стола)
func NewSampler(excludePrefixes []string, log *logger.Logger) *Sampler {
	return &Sampler{
		excludePrefixes: excludePrefixes,
		log:             log,
	}
}

// PickCandidate возвращает pid самого нагруженного подходящего процесса
// с долей CPU не ниже minCPU
func (s *Sampler) PickCandidate(ctx context.Context, minCPU float64) (int32, bool) {
	procs, err := gops.ProcessesWithContext(ctx)
	if err != nil {
		s.log.Warn("Process listing failed, no candidate", "error", err.Error())
		return 0, false
	}

	entries := make([]Entry, 0, len(procs))
	for _, p := range procs {
		cpu, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{PID: p.Pid, Name: name, CPU: cpu})
	}

	entry, ok := SelectCandidate(entries, minCPU, s.excludePrefixes)
	if !ok {
		return 0, false
	}

	s.log.Debug("Selected candidate", "pid", entry.PID, "comm", entry.Name, "cpu", entry.CPU)
	return entry.PID, true
}

// SampleCPU возвращает долю CPU конкретного процесса
func (s *Sampler) SampleCPU(ctx context.Context, pid int32) (float64, bool) {
	p, err := gops.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0, false
	}

	cpu, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return 0, false
	}

	return cpu, true
}

// SelectCandidate выбирает из таблицы процессов первый по убыванию CPU
// процесс, который проходит порог minCPU и не попадает в исключения.
// Чистая функция: тесты подставляют фиксированную таблицу
func SelectCandidate(entries []Entry, minCPU float64, excludePrefixes []string) (Entry, bool) {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CPU > sorted[j].CPU
	})

	for _, entry := range sorted {
		if entry.CPU < minCPU {
			// таблица отсортирована по убыванию — дальше никто не пройдет
			break
		}
		if isExcluded(entry.Name, excludePrefixes) {
			continue
		}
		return entry, true
	}

	return Entry{}, false
}

func isExcluded(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
