package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskguard-service/catch"
	"taskguard-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// GuardService coordinates guarded task execution: submission, status
// lookup, and the interception boundary around the unit of work itself.
type GuardService struct {
	runs     RunRepo
	reports  ReportRepo
	executor Executor
	idem     IdempotencyStore
	notifier PanicNotifier
	uow      UnitOfWork
	clock    Clock
	queue    chan<- RunMsg
}

type Option func(*GuardService)

func WithClock(c Clock) Option { return func(s *GuardService) { s.clock = c } }

func WithNotifier(n PanicNotifier) Option { return func(s *GuardService) { s.notifier = n } }

func WithUnitOfWork(u UnitOfWork) Option { return func(s *GuardService) { s.uow = u } }

// WithQueue announces queued runs on ch so an in-process worker can pick
// them up without polling. Sends are non-blocking; a full channel falls
// back to the poll path.
func WithQueue(ch chan<- RunMsg) Option { return func(s *GuardService) { s.queue = ch } }

func NewGuardService(runs RunRepo, reports ReportRepo, executor Executor, idem IdempotencyStore, opts ...Option) *GuardService {
	s := &GuardService{
		runs:     runs,
		reports:  reports,
		executor: executor,
		idem:     idem,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	if s.notifier == nil {
		s.notifier = NoopNotifier{}
	}
	if s.uow == nil {
		s.uow = NoopUoW{}
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	return s
}

// RequestRun queues one guarded execution of a registered task.
func (s *GuardService) RequestRun(ctx context.Context, task string, arg string, idemKey *string) (string, error) {
	name := domain.TaskName(task)
	if !s.executor.Has(name) {
		return "", domain.ErrUnknownTask
	}
	if idemKey != nil && *idemKey != "" {
		ok, err := s.idem.TryReserve(ctx, "run:"+*idemKey)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrConflict
		}
	}
	runID, err := s.runs.CreateQueued(ctx, name, arg)
	if err != nil {
		return "", err
	}
	if s.queue != nil {
		select {
		case s.queue <- RunMsg{ID: runID, Task: name, Arg: arg}:
		default:
		}
	}
	return runID, nil
}

func (s *GuardService) GetRun(ctx context.Context, id string) (domain.TaskRun, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *GuardService) GetReport(ctx context.Context, runID string) (domain.PanicReport, error) {
	return s.reports.GetByRunID(ctx, runID)
}

func (s *GuardService) ListReports(ctx context.Context, limit int) ([]domain.PanicReport, error) {
	return s.reports.ListRecent(ctx, limit)
}

// ProcessRun executes the run's unit of work exactly once behind the catch
// boundary. A normal result completes the run; a returned error fails it;
// an intercepted panic fails it and appends a PanicReport in the same unit
// of work. ProcessRun never panics because of the task.
func (s *GuardService) ProcessRun(ctx context.Context, id string, task domain.TaskName, arg string) error {
	if err := s.runs.UpdateStatus(ctx, id, domain.RunStatusProcessing, nil, nil); err != nil {
		return err
	}

	result, err := catch.Do(func() (string, error) {
		return s.executor.Run(ctx, task, arg)
	})

	var rec *catch.Recovered
	switch {
	case errors.As(err, &rec):
		report := domain.PanicReport{
			RunID:      id,
			Task:       task,
			Value:      fmt.Sprint(rec.Value),
			Stack:      string(rec.Stack),
			OccurredAt: s.clock.Now(),
		}
		msg := rec.Error()
		uowErr := s.uow.Do(ctx, func(c context.Context) error {
			if err := s.reports.Append(c, report); err != nil {
				return err
			}
			return s.runs.UpdateStatus(c, id, domain.RunStatusFailed, nil, &msg)
		})
		if uowErr != nil {
			return uowErr
		}
		_ = s.notifier.Notify(ctx, report)
		return nil
	case err != nil:
		msg := err.Error()
		return s.runs.UpdateStatus(ctx, id, domain.RunStatusFailed, nil, &msg)
	default:
		return s.runs.UpdateStatus(ctx, id, domain.RunStatusDone, &result, nil)
	}
}
