package sysfs

import (
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// BoostWriter — минимальная зависимость актуатора от интерфейса ядра
type BoostWriter interface {
	WriteBoostLevel(level int) error
}

// Actuator реализует port.BoostActuator: записывает уровень буста,
// только когда он отличается от последнего успешно записанного.
// Неудачная запись не меняет отслеживаемое состояние, поэтому
// следующий подходящий такт повторит попытку
type Actuator struct {
	writer    BoostWriter
	log       *logger.Logger
	last      valueobject.BoostLevel
	lastKnown bool
}

// NewActuator создает актуатор буста
func NewActuator(writer BoostWriter, log *logger.Logger) *Actuator {
	return &Actuator{
		writer: writer,
		log:    log,
	}
}

// Apply записывает уровень при изменении; повторные вызовы с тем же
// уровнем дают не более одной записи
func (a *Actuator) Apply(level valueobject.BoostLevel) error {
	if a.lastKnown && a.last == level {
		return nil
	}

	if err := a.writer.WriteBoostLevel(level.Int()); err != nil {
		a.log.Error("Failed to write boost level", err, "level", level.Int())
		return err
	}

	a.last = level
	a.lastKnown = true
	a.log.Debug("Boost level written", "level", level.Int())
	return nil
}

// Last возвращает последний успешно записанный уровень
func (a *Actuator) Last() (valueobject.BoostLevel, bool) {
	return a.last, a.lastKnown
}
