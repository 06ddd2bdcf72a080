package worker

import (
	"context"
	"time"

	"taskguard-service/internal/application"

	"go.uber.org/zap"
)

var _ application.Worker = (*DbWorker)(nil)

// DbWorker polls the run table and pushes claimed batches through the
// guard service. Panic isolation per run happens inside ProcessRun, so a
// misbehaving task never takes the polling loop down.
type DbWorker struct {
	Svc  *application.GuardService
	Runs application.RunRepo

	PollEvery   time.Duration
	BatchLimit  int
	TaskTimeout time.Duration
	Log         *zap.Logger
}

func (w *DbWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = 250 * time.Millisecond
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = 10
	}
	if w.TaskTimeout <= 0 {
		w.TaskTimeout = 5 * time.Second
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("db_worker_started", zap.Duration("poll_every", w.PollEvery))
	for {
		select {
		case <-ctx.Done():
			log.Info("db_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *DbWorker) tick(ctx context.Context, log *zap.Logger) {
	claims, err := w.Runs.ClaimQueued(ctx, w.BatchLimit)
	if err != nil {
		log.Warn("claim_failed", zap.Error(err))
		return
	}
	for _, c := range claims {
		w.processOne(ctx, log, c)
	}
}

func (w *DbWorker) processOne(ctx context.Context, log *zap.Logger, c application.RunClaim) {
	runCtx, cancel := context.WithTimeout(ctx, w.TaskTimeout)
	defer cancel()

	if err := w.Svc.ProcessRun(runCtx, c.ID, c.Task, c.Arg); err != nil {
		log.Warn("run_failed", zap.String("id", c.ID), zap.String("task", string(c.Task)), zap.Error(err))
		return
	}
	log.Info("run_processed", zap.String("id", c.ID), zap.String("task", string(c.Task)))
}
