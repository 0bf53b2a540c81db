package procfs

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

// ReadCPUPressure читает давление CPU (PSI) из файла pressure-статистики.
// Отсутствие файла или нужных ключей — не ошибка: такие метрики просто
// опускаются из результата
func ReadCPUPressure(path string, log *logger.Logger) map[string]float64 {
	f, err := os.Open(path)
	if err != nil {
		log.Debug("CPU pressure is unavailable", "path", path, "error", err.Error())
		return map[string]float64{}
	}
	defer f.Close()

	return ParseCPUPressure(f)
}

// ParseCPUPressure разбирает строки вида
//
//	some avg10=0.00 avg60=0.00 avg300=0.00 total=0
//	full avg10=0.00 avg60=0.00 avg300=0.00 total=0
//
// и извлекает avg10 для "some" и "full". Запятая как десятичный
// разделитель (артефакт локали) нормализуется в точку
func ParseCPUPressure(r io.Reader) map[string]float64 {
	features := make(map[string]float64)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var name string
		switch {
		case strings.HasPrefix(line, "some "):
			name = valueobject.FeaturePSICPUSome
		case strings.HasPrefix(line, "full "):
			name = valueobject.FeaturePSICPUFull
		default:
			continue
		}

		for _, field := range strings.Fields(line) {
			raw, ok := strings.CutPrefix(field, "avg10=")
			if !ok {
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil {
				continue
			}
			features[name] = value
		}
	}

	return features
}
