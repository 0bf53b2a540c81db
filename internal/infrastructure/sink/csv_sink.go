package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/bartrom653/adaptive-sched/internal/application/port"
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// Порядок колонок фиксирован и совпадает со схемой датасета,
// которую ожидает офлайн-пайплайн обучения
var csvColumns = []string{
	"timestamp",
	"target_pid",
	valueobject.FeatureAvgLoad,
	valueobject.FeatureMaxLoad,
	valueobject.FeatureProcCPU,
	valueobject.FeatureMemUsedPct,
	valueobject.FeatureProcsRunning,
	valueobject.FeatureProcsBlocked,
	valueobject.FeatureLoadAvg1,
	valueobject.FeatureLoadAvg5,
	valueobject.FeatureLoadAvg15,
	valueobject.FeaturePSICPUSome,
	valueobject.FeaturePSICPUFull,
	valueobject.FeatureProcRSSKB,
	valueobject.FeatureProcVMSKB,
	valueobject.FeatureProcThreads,
	valueobject.FeatureProcReadBytes,
	valueobject.FeatureProcWriteBytes,
	"boost_level",
}

// CSVSink пишет по одной строке датасета за такт в append-only CSV файл.
// Отсутствующие в снимке метрики заполняются нулями — схема датасета
// требует плотных строк
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	log    *logger.Logger
}

// NewCSVSink открывает (или создает) CSV файл и дописывает заголовок,
// если файл пуст
func NewCSVSink(path string, log *logger.Logger) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create dataset dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat dataset file: %w", err)
	}

	s := &CSVSink{
		file:   file,
		writer: csv.NewWriter(file),
		log:    log,
	}

	if info.Size() == 0 {
		if err := s.writer.Write(csvColumns); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write dataset header: %w", err)
		}
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to flush dataset header: %w", err)
		}
	}

	return s, nil
}

// Record дописывает одну строку датасета
func (s *CSVSink) Record(_ context.Context, rec port.SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := make([]string, 0, len(csvColumns))
	for _, column := range csvColumns {
		switch column {
		case "timestamp":
			row = append(row, rec.Timestamp.UTC().Format(time.RFC3339Nano))
		case "target_pid":
			row = append(row, strconv.Itoa(int(rec.TargetPID)))
		case "boost_level":
			row = append(row, strconv.Itoa(rec.Boost.Int()))
		default:
			value := rec.Features.GetOrZero(column)
			row = append(row, strconv.FormatFloat(value, 'f', -1, 64))
		}
	}

	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write dataset row: %w", err)
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset row: %w", err)
	}

	return nil
}

// Close сбрасывает буфер и закрывает файл
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
