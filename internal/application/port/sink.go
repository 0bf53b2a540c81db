package port

import (
	"context"
	"time"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

// SnapshotRecord — одна запись наблюдаемого снимка признаков и принятого
// решения, для офлайн-обучения модели
type SnapshotRecord struct {
	RunID     string
	RecordID  string
	Timestamp time.Time
	Mode      string
	TargetPID int32
	Features  valueobject.FeatureSnapshot
	Boost     valueobject.BoostLevel
}

// SnapshotSink — приемник записей датасета (best-effort).
// Ошибки записи не влияют на работу контура управления
type SnapshotSink interface {
	Record(ctx context.Context, rec SnapshotRecord) error
	Close() error
}
