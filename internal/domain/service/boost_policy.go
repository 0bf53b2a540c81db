package service

import (
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

// DecisionInput — входные данные для выбора уровня буста за один цикл.
// Флаги OK отражают доступность метрики: источник мог быть недоступен
type DecisionInput struct {
	AvgLoad   int
	AvgLoadOK bool
	MaxLoad   int
	MaxLoadOK bool
	ProcCPU   float64
	ProcCPUOK bool
	Snapshot  valueobject.FeatureSnapshot
}

// BoostStrategy определяет стратегию выбора уровня буста.
// Стратегия выбирается один раз при старте процесса
type BoostStrategy interface {
	Name() string
	Decide(in DecisionInput) valueobject.BoostLevel
}

// RulePolicy — детерминированная политика на пороговых правилах.
// Комбинация OR общесистемных и процессных сигналов: эскалацию дает
// либо насыщенная система, либо один разогнавшийся процесс, либо
// связка память+очередь выполнения (режим thrashing)
type RulePolicy struct{}

// NewRulePolicy создает rule-based политику
func NewRulePolicy() *RulePolicy {
	return &RulePolicy{}
}

// Name возвращает имя стратегии
func (p *RulePolicy) Name() string {
	return "base"
}

// Decide возвращает уровень буста по пороговым правилам.
// Если avg_load или max_load недоступны — всегда 0
func (p *RulePolicy) Decide(in DecisionInput) valueobject.BoostLevel {
	if !in.AvgLoadOK || !in.MaxLoadOK {
		return valueobject.BoostNone
	}

	memUsed := in.Snapshot.GetOrZero(valueobject.FeatureMemUsedPct)
	procsRunning := in.Snapshot.GetOrZero(valueobject.FeatureProcsRunning)

	if in.MaxLoad >= 90 ||
		(in.ProcCPUOK && in.ProcCPU >= 80) ||
		(memUsed >= 90 && procsRunning >= 8) {
		return valueobject.BoostHigh
	}

	if in.AvgLoad >= 70 ||
		(in.ProcCPUOK && in.ProcCPU >= 60) ||
		(memUsed >= 80 && procsRunning >= 6) {
		return valueobject.BoostMedium
	}

	if in.AvgLoad >= 40 ||
		(in.ProcCPUOK && in.ProcCPU >= 30) ||
		(memUsed >= 70 && procsRunning >= 4) {
		return valueobject.BoostLow
	}

	return valueobject.BoostNone
}
