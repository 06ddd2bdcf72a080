package application

import (
	"context"

	"taskguard-service/internal/domain"
)

// RunClaim is a queued run handed to a worker for processing.
type RunClaim struct {
	ID   string
	Task domain.TaskName
	Arg  string
}

type RunRepo interface {
	CreateQueued(ctx context.Context, task domain.TaskName, arg string) (string, error)
	GetByID(ctx context.Context, id string) (domain.TaskRun, error)
	UpdateStatus(ctx context.Context, id string, status domain.RunStatus, result, errMsg *string) error
	ClaimQueued(ctx context.Context, limit int) ([]RunClaim, error)
}

type ReportRepo interface {
	Append(ctx context.Context, r domain.PanicReport) error
	GetByRunID(ctx context.Context, runID string) (domain.PanicReport, error)
	ListRecent(ctx context.Context, limit int) ([]domain.PanicReport, error)
}

// Executor resolves a task name to its registered unit of work and invokes
// it. Implementations must not recover panics themselves; interception
// happens at the service boundary.
type Executor interface {
	Has(task domain.TaskName) bool
	Run(ctx context.Context, task domain.TaskName, arg string) (string, error)
}

// PanicNotifier pushes an intercepted panic to an external receiver.
type PanicNotifier interface {
	Notify(ctx context.Context, r domain.PanicReport) error
}

// NoopNotifier discards reports; used when no webhook is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, domain.PanicReport) error { return nil }
