package entity

import "time"

// Target представляет процесс, который контроллер сейчас продвигает
// в планировщике (Aggregate Root). Единственный живой экземпляр
// принадлежит циклу управления
type Target struct {
	pid        int32
	heldSince  time.Time
	idleStreak int
}

// NewTarget создает состояние для только что принятого процесса:
// счетчик простоя обнулен, отсчет удержания начинается с adoptedAt
func NewTarget(pid int32, adoptedAt time.Time) *Target {
	return &Target{
		pid:        pid,
		heldSince:  adoptedAt,
		idleStreak: 0,
	}
}

// PID возвращает идентификатор удерживаемого процесса
func (t *Target) PID() int32 {
	return t.pid
}

// HeldSince возвращает момент принятия процесса
func (t *Target) HeldSince() time.Time {
	return t.heldSince
}

// IdleStreak возвращает число подряд идущих «сонных» замеров
func (t *Target) IdleStreak() int {
	return t.idleStreak
}

// HoldDuration возвращает длительность удержания на момент now
func (t *Target) HoldDuration(now time.Time) time.Duration {
	return now.Sub(t.heldSince)
}

// ObserveCPU обновляет счетчик простоя по новому замеру CPU:
// замер ниже порога продлевает серию, иначе серия обнуляется.
// Возвращает текущую длину серии
func (t *Target) ObserveCPU(cpuPct, idleThreshold float64) int {
	if cpuPct < idleThreshold {
		t.idleStreak++
	} else {
		t.idleStreak = 0
	}
	return t.idleStreak
}
