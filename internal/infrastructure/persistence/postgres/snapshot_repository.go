package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/bartrom653/adaptive-sched/internal/application/port"
)

// SnapshotRepository реализует port.SnapshotSink для PostgreSQL:
// append-only таблица записей датасета для офлайн-обучения
type SnapshotRepository struct {
	db    *sql.DB
	table string
}

// NewSnapshotRepository создает PostgreSQL repository и гарантирует
// наличие таблицы датасета
func NewSnapshotRepository(ctx context.Context, db *sql.DB, table string) (*SnapshotRepository, error) {
	r := &SnapshotRepository{
		db:    db,
		table: table,
	}

	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *SnapshotRepository) ensureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			run_id      UUID NOT NULL,
			mode        TEXT NOT NULL,
			target_pid  INTEGER NOT NULL,
			features    JSONB NOT NULL,
			boost_level SMALLINT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		)
	`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure snapshot table: %w", err)
	}

	return nil
}

// Record сохраняет одну запись датасета
func (r *SnapshotRepository) Record(ctx context.Context, rec port.SnapshotRecord) error {
	features, err := json.Marshal(rec.Features.Values())
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, run_id, mode, target_pid, features, boost_level, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.table)

	_, err = r.db.ExecContext(ctx, query,
		rec.RecordID,
		rec.RunID,
		rec.Mode,
		rec.TargetPID,
		features,
		rec.Boost.Int(),
		rec.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Close ничего не закрывает: владелец соединения — вызывающая сторона
func (r *SnapshotRepository) Close() error {
	return nil
}
