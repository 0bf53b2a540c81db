package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	// Application
	applicationPort "github.com/bartrom653/adaptive-sched/internal/application/port"
	"github.com/bartrom653/adaptive-sched/internal/application/usecase"

	// Domain
	"github.com/bartrom653/adaptive-sched/internal/domain/service"
	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"

	// Infrastructure
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/collector"
	natsInfra "github.com/bartrom653/adaptive-sched/internal/infrastructure/messaging/nats"
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/model"
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/persistence/postgres"
	procSampler "github.com/bartrom653/adaptive-sched/internal/infrastructure/process"
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/sink"
	"github.com/bartrom653/adaptive-sched/internal/infrastructure/sysfs"

	// Interfaces
	"github.com/bartrom653/adaptive-sched/internal/interfaces/http/handler"
	"github.com/bartrom653/adaptive-sched/internal/interfaces/http/middleware"

	// Shared
	"github.com/bartrom653/adaptive-sched/internal/controller"
	"github.com/bartrom653/adaptive-sched/internal/metrics"
	"github.com/bartrom653/adaptive-sched/pkg/config"
	"github.com/bartrom653/adaptive-sched/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting adaptive scheduler controller")
	log.Info("Using sysfs base", "path", cfg.Sysfs.BasePath)

	// 3. Интерфейс модуля ядра
	kernel := sysfs.New(cfg.Sysfs.BasePath, log)
	actuator := sysfs.NewActuator(kernel, log)

	// 4. Стратегия принятия решений (base / ml / hybrid)
	mode := cfg.Controller.Mode
	rule := service.NewRulePolicy()
	var strategy service.BoostStrategy = rule

	if mode == "ml" || mode == "hybrid" {
		forest, loadErr := model.Load(cfg.Model.Path)
		if loadErr != nil {
			if cfg.Model.Required {
				log.Error("Model is required but not available", loadErr, "path", cfg.Model.Path)
				os.Exit(1)
			}
			log.Warn("Model not available, falling back to base mode",
				"path", cfg.Model.Path, "error", loadErr.Error())
			mode = "base"
		} else {
			log.Info("Model loaded", "path", cfg.Model.Path, "features", len(forest.FeatureNames()))
			modelStrategy := service.NewModelStrategy(forest)
			if mode == "ml" {
				strategy = modelStrategy
			} else {
				strategy = service.NewHybridStrategy(rule, modelStrategy)
			}
		}
	}
	log.Info("Decision strategy selected", "mode", mode)

	// 5. Сэмплер процессов и коллекторы признаков
	sampler := procSampler.NewSampler(cfg.Sampler.ExcludePrefixes, log)
	systemCollector := collector.NewSystemCollector(cfg.Procfs.PressureCPUPath, log)
	processCollector := collector.NewProcessCollector(log)

	// 6. Приемники датасета (все best-effort)
	sinks := make([]applicationPort.SnapshotSink, 0, 3)

	if cfg.Dataset.Enabled {
		csvSink, sinkErr := sink.NewCSVSink(cfg.Dataset.Path, log)
		if sinkErr != nil {
			log.Warn("Dataset CSV sink unavailable, continuing without it",
				"path", cfg.Dataset.Path, "error", sinkErr.Error())
		} else {
			sinks = append(sinks, csvSink)
			log.Info("Dataset CSV sink initialized", "path", cfg.Dataset.Path)
		}
	}

	if cfg.NATS.Enabled {
		publisher, natsErr := natsInfra.NewSnapshotPublisher(cfg.NATS.URL, cfg.NATS.Subject, log)
		if natsErr != nil {
			log.Warn("Failed to connect to NATS, continuing without snapshot streaming",
				"error", natsErr.Error())
		} else {
			sinks = append(sinks, publisher)
		}
	} else {
		log.Debug("NATS snapshot streaming is disabled")
	}

	if cfg.Database.Enabled {
		db, dbErr := sql.Open("postgres", cfg.Database.DSN())
		if dbErr == nil {
			dbErr = db.Ping()
		}
		if dbErr != nil {
			log.Warn("Failed to connect to database, continuing without DB sink",
				"error", dbErr.Error())
		} else {
			repo, repoErr := postgres.NewSnapshotRepository(context.Background(), db, cfg.Database.Table)
			if repoErr != nil {
				log.Warn("Failed to initialize DB sink, continuing without it",
					"error", repoErr.Error())
				db.Close()
			} else {
				defer db.Close()
				sinks = append(sinks, repo)
				log.Info("Database sink initialized", "table", cfg.Database.Table)
			}
		}
	}

	var snapshotSink applicationPort.SnapshotSink
	if len(sinks) > 0 {
		multi := sink.NewMultiSink(log, sinks...)
		defer multi.Close()
		snapshotSink = multi
	} else {
		log.Warn("No snapshot sinks configured, dataset logging is off")
	}

	// 7. Метрики контроллера и трекер цели
	registry := prometheus.NewRegistry()
	controllerMetrics := metrics.New(registry)

	tracker := service.NewTargetTracker(service.TrackerConfig{
		IdleCPUThreshold:  cfg.Tracker.IdleCPUThreshold,
		IdleStreakLimit:   cfg.Tracker.IdleStreakLimit,
		CompetitionMargin: cfg.Tracker.CompetitionMargin,
		HoldTime:          cfg.Tracker.HoldTime,
		StaleCPUThreshold: cfg.Tracker.StaleCPUThreshold,
	}, log)

	// 8. Use case и цикл управления
	tickUC := usecase.NewControlTickUseCase(
		kernel,
		actuator,
		sampler,
		systemCollector,
		processCollector,
		tracker,
		strategy,
		snapshotSink,
		controllerMetrics,
		log,
		usecase.ControlTickConfig{
			Mode:             mode,
			TargetMinCPU:     cfg.Tracker.TargetMinCPU,
			CompetitorMinCPU: cfg.Tracker.CompetitorMinCPU,
		},
	)
	log.Info("Controller run initialized", "run_id", tickUC.RunID())

	runner := controller.NewRunner(tickUC, log, cfg.Controller.Interval, mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Статусный HTTP сервер (опционально)
	var statusServer *http.Server
	if cfg.Controller.StatusAddr != "" {
		statusHandler := handler.NewStatusHandler(runner, registry)
		routes := middleware.Logger(log)(middleware.RateLimit(10, 20)(statusHandler.Routes()))
		statusServer = &http.Server{
			Addr:         cfg.Controller.StatusAddr,
			Handler:      routes,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			log.Info("Status server starting", "addr", cfg.Controller.StatusAddr)
			if serveErr := statusServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				log.Error("Status server failed", serveErr)
			}
		}()
	}

	// 10. Запускаем цикл и ждем сигнала ОС
	go runner.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutdown signal received")
	cancel()

	if statusServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := statusServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Warn("Status server shutdown failed", "error", shutdownErr.Error())
		}
	}

	// По умолчанию последний буст остается в ядре; сброс — по флагу
	if cfg.Controller.ResetBoostOnExit {
		if resetErr := actuator.Apply(valueobject.BoostNone); resetErr != nil {
			log.Warn("Failed to reset boost on exit", "error", resetErr.Error())
		} else {
			log.Info("Boost level reset on exit")
		}
	}

	log.Info("Controller stopped")
}
