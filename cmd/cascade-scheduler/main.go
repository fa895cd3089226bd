// Cascade Scheduler — демон периодического запуска конвейеров.
//
// Scheduler:
//   - Загружает файлы конвейеров из каталога (PIPELINES_DIR)
//   - Регистрирует конвейеры с полем schedule в cron
//   - Выполняет срабатывания in-process через runner
//   - Пишет историю в PostgreSQL, публикует события в RabbitMQ
//
// БД и брокер опциональны: без них история живёт в памяти,
// а события не публикуются.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cascade/internal/compose"
	"github.com/shaiso/Cascade/internal/engine"
	"github.com/shaiso/Cascade/internal/events"
	"github.com/shaiso/Cascade/internal/history"
	"github.com/shaiso/Cascade/internal/pipeline"
	"github.com/shaiso/Cascade/internal/runner"
	"github.com/shaiso/Cascade/internal/schedule"
	"github.com/shaiso/Cascade/internal/steps"
	"github.com/shaiso/Cascade/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting cascade-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// История запусков: PostgreSQL, либо память без БД
	var store history.Store
	pool, err := history.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, run history kept in memory", "error", err)
	} else {
		defer pool.Close()
		logger.Info("database connected")
		store = history.NewPostgresStore(pool)
	}

	// RabbitMQ
	var publisher *events.Publisher
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = events.DefaultURL()
	}
	conn, err := events.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, events disabled", "error", err)
	} else {
		defer conn.Close()
		logger.Info("RabbitMQ connected")

		if err := events.SetupTopology(ctx, conn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = events.NewPublisher(conn, logger)
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	r := runner.New(runner.Config{
		Store:     store,
		Publisher: publisher,
		Metrics:   metrics,
		Logger:    logger,
	})

	// Загружаем конвейеры и регистрируем расписания
	dir := os.Getenv("PIPELINES_DIR")
	if dir == "" {
		dir = "./pipelines"
	}

	trigger := schedule.NewTrigger(logger)
	registry := steps.DefaultRegistry()

	specs, err := loadSpecs(dir)
	if err != nil {
		logger.Error("failed to load pipelines", "dir", dir, "error", err)
		os.Exit(1)
	}

	for _, spec := range specs {
		if spec.Schedule == "" {
			logger.Debug("pipeline has no schedule, skipping", "pipeline", spec.Name)
			continue
		}

		p, err := compose.Compose(spec, registry,
			pipeline.WithLogger(logger),
			pipeline.WithMetrics(metrics),
		)
		if err != nil {
			logger.Error("failed to compose pipeline", "pipeline", spec.Name, "error", err)
			os.Exit(1)
		}

		inputs := spec.Inputs
		err = trigger.Add(spec.Name, spec.Schedule, func(runCtx context.Context) {
			if _, _, err := r.Execute(runCtx, p, inputs); err != nil {
				logger.Error("scheduled run failed", "pipeline", p.Name(), "error", err)
			}
		})
		if err != nil {
			logger.Error("failed to register schedule", "pipeline", spec.Name, "error", err)
			os.Exit(1)
		}

		next, _ := schedule.NextDue(spec.Schedule, time.Now())
		logger.Info("schedule registered",
			"pipeline", spec.Name,
			"cron", spec.Schedule,
			"next", next,
		)
	}

	if trigger.Entries() == 0 {
		logger.Warn("no scheduled pipelines found", "dir", dir)
	}

	trigger.Start()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Даём запущенным конвейерам время завершиться
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := trigger.Stop(stopCtx); err != nil {
		logger.Warn("schedules did not finish in time", "error", err)
	}
	logger.Info("cascade-scheduler stopped")
}

// loadSpecs читает все файлы конвейеров из каталога.
func loadSpecs(dir string) ([]*engine.PipelineSpec, error) {
	var specs []*engine.PipelineSpec

	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		paths, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			spec, err := engine.ParseSpec(data)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}

	return specs, nil
}
