package bootstrap

import (
	"context"
	"fmt"

	"taskguard-service/internal/application"
	httpserver "taskguard-service/internal/infrastructure/http"
	"taskguard-service/internal/infrastructure/worker"
)

// InitAPI wires the API process: pg repos, redis idempotency, webhook
// notifier, task registry, and optionally an in-process chan worker
// (WORKER_TYPE=chan runs API and worker in one binary).
func InitAPI(ctx context.Context) (*httpserver.Server, application.Worker, func(), error) {
	log := ProvideLogger()
	cfg := ProvideConfig()

	db, closeDB, err := ProvideDB(ctx, log, cfg)
	if err != nil {
		return nil, nil, func() {}, err
	}
	services, closeServices := ProvideServices(cfg)
	repos := ProvideRepos(db)
	registry := ProvideRegistry()

	var queue chan application.RunMsg
	var w application.Worker
	if cfg.WorkerType == "chan" {
		queue = make(chan application.RunMsg, cfg.QueueSize)
	}
	svc := ProvideGuardService(repos, registry, services, db, queue)
	if queue != nil {
		w = worker.NewChanWorker(svc, queue, cfg.TaskTimeout)
	}

	srv := httpserver.NewServer(svc)
	srv.SetReadyCheck(db.Ping)

	cleanup := func() {
		closeServices()
		closeDB()
	}
	return srv, w, cleanup, nil
}

// InitWorker wires the standalone polling worker process.
func InitWorker(ctx context.Context) (application.Worker, func(), error) {
	log := ProvideLogger()
	cfg := ProvideConfig()

	switch cfg.WorkerType {
	case "", "db":
	default:
		return nil, func() {}, fmt.Errorf("unsupported WORKER_TYPE=%q for cmd/worker", cfg.WorkerType)
	}

	db, closeDB, err := ProvideDB(ctx, log, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	services, closeServices := ProvideServices(cfg)
	repos := ProvideRepos(db)
	registry := ProvideRegistry()
	svc := ProvideGuardService(repos, registry, services, db, nil)

	w := &worker.DbWorker{
		Svc:         svc,
		Runs:        repos.RunRepo,
		PollEvery:   cfg.WorkerPoll,
		BatchLimit:  cfg.WorkerBatchSize,
		TaskTimeout: cfg.TaskTimeout,
		Log:         log,
	}
	cleanup := func() {
		closeServices()
		closeDB()
	}
	return w, cleanup, nil
}
