package service

import (
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

// Predictor — обученный офлайн классификатор. Контроллер не обучает
// и не инспектирует модель, только вызывает предсказание по снимку
type Predictor interface {
	Predict(snapshot valueobject.FeatureSnapshot) valueobject.BoostLevel
}

// ModelStrategy делегирует решение обученному классификатору
type ModelStrategy struct {
	predictor Predictor
}

// NewModelStrategy создает ML-стратегию. predictor может быть nil —
// тогда стратегия всегда возвращает 0
func NewModelStrategy(predictor Predictor) *ModelStrategy {
	return &ModelStrategy{predictor: predictor}
}

// Name возвращает имя стратегии
func (s *ModelStrategy) Name() string {
	return "ml"
}

// Decide возвращает предсказание модели по снимку признаков
func (s *ModelStrategy) Decide(in DecisionInput) valueobject.BoostLevel {
	if s.predictor == nil {
		return valueobject.BoostNone
	}
	return s.predictor.Predict(in.Snapshot)
}

// HybridStrategy арбитрирует между предсказанием модели и правилами:
// при близком согласии доверяет модели, при сильном расхождении
// откатывается к правилам как к страховке
type HybridStrategy struct {
	rule  *RulePolicy
	model *ModelStrategy
}

// NewHybridStrategy создает гибридную стратегию
func NewHybridStrategy(rule *RulePolicy, model *ModelStrategy) *HybridStrategy {
	return &HybridStrategy{rule: rule, model: model}
}

// Name возвращает имя стратегии
func (s *HybridStrategy) Name() string {
	return "hybrid"
}

// Decide комбинирует решение модели и правил
func (s *HybridStrategy) Decide(in DecisionInput) valueobject.BoostLevel {
	ruleBoost := s.rule.Decide(in)
	modelBoost := s.model.Decide(in)
	return CombineHybrid(modelBoost, ruleBoost)
}

// CombineHybrid возвращает решение модели, если оно расходится с
// правилами не больше чем на один уровень, иначе решение правил
func CombineHybrid(modelBoost, ruleBoost valueobject.BoostLevel) valueobject.BoostLevel {
	diff := int(modelBoost) - int(ruleBoost)
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return modelBoost
	}
	return ruleBoost
}
