package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Controller ControllerConfig
	Sysfs      SysfsConfig
	Procfs     ProcfsConfig
	Tracker    TrackerConfig
	Sampler    SamplerConfig
	Model      ModelConfig
	Dataset    DatasetConfig
	NATS       NATSConfig
	Database   DatabaseConfig
}

type ControllerConfig struct {
	// Mode: base | ml | hybrid
	Mode             string
	Interval         time.Duration
	StatusAddr       string
	ResetBoostOnExit bool
}

type SysfsConfig struct {
	BasePath string
}

type ProcfsConfig struct {
	PressureCPUPath string
}

type TrackerConfig struct {
	TargetMinCPU      float64
	IdleCPUThreshold  float64
	IdleStreakLimit   int
	CompetitorMinCPU  float64
	CompetitionMargin float64
	HoldTime          time.Duration
	StaleCPUThreshold float64
}

type SamplerConfig struct {
	ExcludePrefixes []string
}

type ModelConfig struct {
	Path     string
	Required bool
}

type DatasetConfig struct {
	Enabled bool
	Path    string
}

type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Table    string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnv("CONTROL_INTERVAL", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTROL_INTERVAL: %w", err)
	}

	holdTime, err := time.ParseDuration(getEnv("TARGET_HOLD_TIME", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_HOLD_TIME: %w", err)
	}

	targetMinCPU, err := getEnvFloat("TARGET_MIN_CPU", 5.0)
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_MIN_CPU: %w", err)
	}

	idleCPU, err := getEnvFloat("IDLE_CPU_THRESHOLD", 2.0)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_CPU_THRESHOLD: %w", err)
	}

	idleStreakLimit, err := strconv.Atoi(getEnv("IDLE_STREAK_LIMIT", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_STREAK_LIMIT: %w", err)
	}

	competitorMinCPU, err := getEnvFloat("COMPETITOR_MIN_CPU", 10.0)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPETITOR_MIN_CPU: %w", err)
	}

	competitionMargin, err := getEnvFloat("COMPETITION_MARGIN", 30.0)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPETITION_MARGIN: %w", err)
	}

	staleCPU, err := getEnvFloat("STALE_CPU_THRESHOLD", 5.0)
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_CPU_THRESHOLD: %w", err)
	}

	cfg := &Config{
		Controller: ControllerConfig{
			Mode:             getEnv("ADAPTIVE_MODE", "hybrid"),
			Interval:         interval,
			StatusAddr:       getEnv("STATUS_ADDR", ""),
			ResetBoostOnExit: getEnvBool("RESET_BOOST_ON_EXIT", false),
		},
		Sysfs: SysfsConfig{
			BasePath: getEnv("SYSFS_BASE_PATH", "/sys/kernel/adaptive_sched"),
		},
		Procfs: ProcfsConfig{
			PressureCPUPath: getEnv("PRESSURE_CPU_PATH", "/proc/pressure/cpu"),
		},
		Tracker: TrackerConfig{
			TargetMinCPU:      targetMinCPU,
			IdleCPUThreshold:  idleCPU,
			IdleStreakLimit:   idleStreakLimit,
			CompetitorMinCPU:  competitorMinCPU,
			CompetitionMargin: competitionMargin,
			HoldTime:          holdTime,
			StaleCPUThreshold: staleCPU,
		},
		Sampler: SamplerConfig{
			ExcludePrefixes: splitCSV(getEnv("TARGET_EXCLUDE_PREFIXES",
				"systemd,kthreadd,rcu_,migration,idle,adaptive-controller,adaptive_daemon,gnome-shell,Xorg")),
		},
		Model: ModelConfig{
			Path:     getEnv("MODEL_PATH", "logs/model.json"),
			Required: getEnvBool("MODEL_REQUIRED", false),
		},
		Dataset: DatasetConfig{
			Enabled: getEnvBool("DATASET_LOG_ENABLED", true),
			Path:    getEnv("DATASET_LOG_PATH", "logs/metrics_log.csv"),
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Subject: getEnv("NATS_SUBJECT", "adaptive.snapshots"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "adaptive_sched"),
			Table:    getEnv("DB_TABLE", "snapshots"),
		},
	}

	switch cfg.Controller.Mode {
	case "base", "ml", "hybrid":
	default:
		return nil, fmt.Errorf("invalid ADAPTIVE_MODE: %q (expected base, ml or hybrid)", cfg.Controller.Mode)
	}

	if cfg.Tracker.IdleStreakLimit < 1 {
		return nil, fmt.Errorf("invalid IDLE_STREAK_LIMIT: must be >= 1")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}
