package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bartrom653/adaptive-sched/internal/application/port"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// SnapshotPublisher implements port.SnapshotSink for NATS JetStream.
// Feature records are streamed for consumption by offline training
// pipelines; delivery is fire-and-forget.
type SnapshotPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	logger  *logger.Logger
}

// snapshotEvent is the wire format of one published record.
type snapshotEvent struct {
	RunID     string             `json:"run_id"`
	RecordID  string             `json:"record_id"`
	Timestamp time.Time          `json:"timestamp"`
	Mode      string             `json:"mode"`
	TargetPID int32              `json:"target_pid"`
	Features  map[string]float64 `json:"features"`
	Boost     int                `json:"boost_level"`
}

// NewSnapshotPublisher creates a new NATS snapshot publisher
func NewSnapshotPublisher(natsURL, subject string, log *logger.Logger) (*SnapshotPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log.Info("Connected to NATS", "url", natsURL, "subject", subject)

	return &SnapshotPublisher{
		nc:      nc,
		js:      js,
		subject: subject,
		logger:  log,
	}, nil
}

// Record publishes one snapshot record (async, fire-and-forget)
func (p *SnapshotPublisher) Record(_ context.Context, rec port.SnapshotRecord) error {
	event := snapshotEvent{
		RunID:     rec.RunID,
		RecordID:  rec.RecordID,
		Timestamp: rec.Timestamp.UTC(),
		Mode:      rec.Mode,
		TargetPID: rec.TargetPID,
		Features:  rec.Features.Values(),
		Boost:     rec.Boost.Int(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot event: %w", err)
	}

	if _, err := p.js.PublishAsync(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish snapshot event: %w", err)
	}

	p.logger.Debug("Snapshot event published", "subject", p.subject, "size", len(data))
	return nil
}

// Close closes the NATS connection
func (p *SnapshotPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		p.nc.Close()
	}
	return nil
}
