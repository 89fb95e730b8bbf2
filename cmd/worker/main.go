package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/datastore"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/observability"
	"github.com/jhoicas/Equipos-api/internal/jobs"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// El worker ejecuta la auditoría del libro según LEDGER_AUDIT_CRON y las que encola la API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "worker",
	})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := datastore.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	svc := inventory.NewService(inventory.Deps{
		TxRunner:   repos.TxRunner,
		Products:   repos.Products,
		Movements:  repos.Movements,
		Categories: repos.Categories,
		Locations:  repos.Locations,
		Metrics:    metrics,
		Logger:     log,
	})
	auditJob := jobs.NewLedgerAuditJob(svc, metrics, log)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	var cron []jobs.CronRegistration
	if cfg.Jobs.LedgerAuditCron != "" {
		task, err := jobs.NewLedgerAuditTask(jobs.TriggerSchedule, time.Now().UTC())
		if err != nil {
			log.Fatal().Err(err).Msg("armar tarea de auditoría")
		}
		cron = append(cron, jobs.CronRegistration{Spec: cfg.Jobs.LedgerAuditCron, Task: task})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Logger:      log,
		Concurrency: cfg.Jobs.Concurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerAudit, Handler: auditJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear worker")
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
