package sink

import (
	"context"

	"github.com/bartrom653/adaptive-sched/internal/application/port"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// MultiSink раздает запись всем подключенным приемникам.
// Отказ одного приемника логируется и не мешает остальным:
// корректность контура управления не зависит от датасета
type MultiSink struct {
	sinks []port.SnapshotSink
	log   *logger.Logger
}

// NewMultiSink создает fan-out по приемникам
func NewMultiSink(log *logger.Logger, sinks ...port.SnapshotSink) *MultiSink {
	return &MultiSink{
		sinks: sinks,
		log:   log,
	}
}

// Record передает запись каждому приемнику (best-effort)
func (m *MultiSink) Record(ctx context.Context, rec port.SnapshotRecord) error {
	for _, s := range m.sinks {
		if err := s.Record(ctx, rec); err != nil {
			m.log.Warn("Snapshot sink failed, continuing", "error", err.Error())
		}
	}
	return nil
}

// Close закрывает все приемники
func (m *MultiSink) Close() error {
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			m.log.Warn("Snapshot sink close failed", "error", err.Error())
		}
	}
	return nil
}
