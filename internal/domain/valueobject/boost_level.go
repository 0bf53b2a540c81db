package valueobject

import "fmt"

// BoostLevel представляет дискретный уровень приоритета {0,1,2,3},
// который ядро применяет к целевому процессу (Value Object)
type BoostLevel int

const (
	BoostNone   BoostLevel = 0
	BoostLow    BoostLevel = 1
	BoostMedium BoostLevel = 2
	BoostHigh   BoostLevel = 3

	// MaxBoostLevel — верхняя граница шкалы
	MaxBoostLevel = BoostHigh
)

// NewBoostLevel создает BoostLevel с валидацией диапазона
func NewBoostLevel(value int) (BoostLevel, error) {
	level := BoostLevel(value)
	if err := level.Validate(); err != nil {
		return BoostNone, err
	}
	return level, nil
}

// ClampBoostLevel приводит произвольное целое к допустимому диапазону
func ClampBoostLevel(value int) BoostLevel {
	if value < int(BoostNone) {
		return BoostNone
	}
	if value > int(MaxBoostLevel) {
		return MaxBoostLevel
	}
	return BoostLevel(value)
}

// Validate проверяет, что уровень лежит в диапазоне 0..3
func (b BoostLevel) Validate() error {
	if b < BoostNone || b > MaxBoostLevel {
		return fmt.Errorf("boost level out of range: %d", int(b))
	}
	return nil
}

// Int возвращает числовое значение уровня
func (b BoostLevel) Int() int {
	return int(b)
}

// String возвращает строковое представление
func (b BoostLevel) String() string {
	return fmt.Sprintf("%d", int(b))
}
