package tasks

import (
	"context"
	"sync"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"
)

// Func is one registered unit of work: zero external inputs beyond arg,
// one result value, and it may terminate abnormally by panicking.
type Func func(ctx context.Context, arg string) (string, error)

// Ensure Registry implements application.Executor.
var _ application.Executor = (*Registry)(nil)

// Registry maps task names to units of work. It deliberately performs no
// panic recovery; the guard service owns the interception boundary.
type Registry struct {
	mu    sync.RWMutex
	tasks map[domain.TaskName]Func
}

func NewRegistry() *Registry {
	return &Registry{tasks: map[domain.TaskName]Func{}}
}

func (r *Registry) Register(name domain.TaskName, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = fn
}

func (r *Registry) Has(name domain.TaskName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[name]
	return ok
}

func (r *Registry) Run(ctx context.Context, name domain.TaskName, arg string) (string, error) {
	r.mu.RLock()
	fn, ok := r.tasks[name]
	r.mu.RUnlock()
	if !ok {
		return "", domain.ErrUnknownTask
	}
	return fn(ctx, arg)
}
