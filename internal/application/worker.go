package application

import (
	"context"

	"taskguard-service/internal/domain"
)

// Worker represents a background processor of queued runs.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}

// RunMsg announces a freshly queued run to an in-process worker.
type RunMsg struct {
	ID      string
	Task    domain.TaskName
	Arg     string
	TraceID string
}
