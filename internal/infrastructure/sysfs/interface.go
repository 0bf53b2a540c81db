package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// Имена скалярных файлов интерфейса модуля ядра
const (
	fileCurrentLoad = "current_load"
	fileMaxLoad     = "max_load"
	fileTargetPID   = "target_pid"
	fileBoostLevel  = "boost_level"
)

// Interface реализует port.KernelInterface поверх каталога скалярных
// файлов модуля ядра. Отсутствующий файл, мусор в содержимом или отказ
// в доступе сворачиваются в «метрика недоступна», никогда не паникуют
type Interface struct {
	basePath string
	log      *logger.Logger
}

// New создает интерфейс к каталогу модуля ядра
func New(basePath string, log *logger.Logger) *Interface {
	return &Interface{
		basePath: basePath,
		log:      log,
	}
}

// BasePath возвращает корневой каталог интерфейса
func (s *Interface) BasePath() string {
	return s.basePath
}

// ReadCurrentLoad читает общесистемную загрузку (0-100)
func (s *Interface) ReadCurrentLoad() (int, bool) {
	return s.readInt(filepath.Join(s.basePath, fileCurrentLoad))
}

// ReadMaxLoad читает загрузку самого горячего ядра (0-100)
func (s *Interface) ReadMaxLoad() (int, bool) {
	return s.readInt(filepath.Join(s.basePath, fileMaxLoad))
}

// WriteTargetPID передает ядру pid процесса для продвижения
func (s *Interface) WriteTargetPID(pid int32) error {
	return s.writeInt(filepath.Join(s.basePath, fileTargetPID), int(pid))
}

// WriteBoostLevel записывает уровень буста (0-3)
func (s *Interface) WriteBoostLevel(level int) error {
	return s.writeInt(filepath.Join(s.basePath, fileBoostLevel), level)
}

// readInt читает целое из скалярного файла. Целочисленный reader
// отклоняет нечисловой текст
func (s *Interface) readInt(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("Failed to read sysfs value, treating as unavailable",
			"path", path, "error", err.Error())
		return 0, false
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		s.log.Warn("Malformed sysfs value, treating as unavailable",
			"path", path, "raw", strings.TrimSpace(string(data)))
		return 0, false
	}

	return value, true
}

func (s *Interface) writeInt(path string, value int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("failed to write %d to %s: %w", value, path, err)
	}
	return nil
}
