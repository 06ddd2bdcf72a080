package worker

import (
	"context"
	"time"

	"taskguard-service/internal/application"
	"taskguard-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

var _ application.Worker = (*ChanWorker)(nil)

// ChanWorker consumes queued-run announcements from an in-process channel,
// the fast path used when API and worker share a binary. The run table
// remains the source of truth; a dropped announcement is picked up by the
// polling worker.
type ChanWorker struct {
	svc         *application.GuardService
	jobs        <-chan application.RunMsg
	taskTimeout time.Duration
}

func NewChanWorker(svc *application.GuardService, jobs <-chan application.RunMsg, taskTimeout time.Duration) *ChanWorker {
	if taskTimeout <= 0 {
		taskTimeout = 5 * time.Second
	}
	return &ChanWorker{svc: svc, jobs: jobs, taskTimeout: taskTimeout}
}

func (w *ChanWorker) Start(ctx context.Context) {
	log := logx.L().With(zap.String("worker", "chan"))
	for {
		select {
		case <-ctx.Done():
			log.Info("chan_worker.stop")
			return
		case m, ok := <-w.jobs:
			if !ok {
				log.Info("chan_worker.closed")
				return
			}
			w.processOne(ctx, log, m)
		}
	}
}

func (w *ChanWorker) processOne(ctx context.Context, log *zap.Logger, m application.RunMsg) {
	c, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()
	if err := w.svc.ProcessRun(c, m.ID, m.Task, m.Arg); err != nil {
		log.Warn("chan_worker.run_failed", zap.String("id", m.ID), zap.Error(err))
	}
}
