package port

import "context"

// SystemFeatureCollector собирает общесистемные метрики (память, очередь
// выполнения, load average, PSI). Недоступные источники опускаются
type SystemFeatureCollector interface {
	Collect(ctx context.Context) map[string]float64
}

// ProcessFeatureCollector собирает метрики конкретного процесса
// (память, потоки, счетчики ввода-вывода). Для исчезнувшего процесса
// возвращается пустой набор
type ProcessFeatureCollector interface {
	Collect(ctx context.Context, pid int32) map[string]float64
}
