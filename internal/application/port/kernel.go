package port

import (
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

// KernelInterface определяет порт к файловому интерфейсу модуля ядра (Port)
// Реализация будет в Infrastructure слое
type KernelInterface interface {
	// ReadCurrentLoad читает общесистемную загрузку (0-100)
	ReadCurrentLoad() (int, bool)

	// ReadMaxLoad читает загрузку самого горячего ядра (0-100)
	ReadMaxLoad() (int, bool)

	// WriteTargetPID передает ядру pid процесса для продвижения
	WriteTargetPID(pid int32) error
}

// BoostActuator применяет уровень буста идемпотентно: повторная запись
// того же уровня не выполняется
type BoostActuator interface {
	// Apply записывает уровень, только если он отличается от последнего
	// успешно записанного
	Apply(level valueobject.BoostLevel) error

	// Last возвращает последний успешно записанный уровень
	Last() (valueobject.BoostLevel, bool)
}
