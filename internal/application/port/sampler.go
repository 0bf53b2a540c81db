package port

import "context"

// ProcessSampler определяет порт для перечисления процессов по доле CPU (Port)
// Узкий интерфейс позволяет тестам подставлять фиксированную таблицу процессов
type ProcessSampler interface {
	// PickCandidate возвращает pid самого нагруженного подходящего процесса
	// с долей CPU не ниже minCPU. ok=false — кандидата нет или листинг не удался
	PickCandidate(ctx context.Context, minCPU float64) (int32, bool)

	// SampleCPU возвращает долю CPU конкретного процесса.
	// ok=false — процесс исчез или замер не удался
	SampleCPU(ctx context.Context, pid int32) (float64, bool)
}
