package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskguard-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakeRunRepo struct {
	runs map[string]domain.TaskRun
	seq  int
	err  error
}

func (f *fakeRunRepo) CreateQueued(_ context.Context, task domain.TaskName, arg string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.runs == nil {
		f.runs = map[string]domain.TaskRun{}
	}
	f.seq++
	id := fmt.Sprintf("run-%d", f.seq)
	f.runs[id] = domain.TaskRun{ID: id, Task: task, Arg: arg, Status: domain.RunStatusQueued}
	return id, nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (domain.TaskRun, error) {
	if f.err != nil {
		return domain.TaskRun{}, f.err
	}
	r, ok := f.runs[id]
	if !ok {
		return domain.TaskRun{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeRunRepo) UpdateStatus(_ context.Context, id string, st domain.RunStatus, result, errMsg *string) error {
	if f.err != nil {
		return f.err
	}
	r, ok := f.runs[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = st
	r.Result = result
	r.Error = errMsg
	f.runs[id] = r
	return nil
}

func (f *fakeRunRepo) ClaimQueued(_ context.Context, limit int) ([]RunClaim, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []RunClaim
	for id, r := range f.runs {
		if r.Status != domain.RunStatusQueued || len(out) >= limit {
			continue
		}
		r.Status = domain.RunStatusProcessing
		f.runs[id] = r
		out = append(out, RunClaim{ID: id, Task: r.Task, Arg: r.Arg})
	}
	return out, nil
}

type fakeReportRepo struct {
	reports []domain.PanicReport
	err     error
}

func (f *fakeReportRepo) Append(_ context.Context, r domain.PanicReport) error {
	if f.err != nil {
		return f.err
	}
	r.ID = int64(len(f.reports) + 1)
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeReportRepo) GetByRunID(_ context.Context, runID string) (domain.PanicReport, error) {
	if f.err != nil {
		return domain.PanicReport{}, f.err
	}
	for _, r := range f.reports {
		if r.RunID == runID {
			return r, nil
		}
	}
	return domain.PanicReport{}, ErrNotFound
}

func (f *fakeReportRepo) ListRecent(_ context.Context, limit int) ([]domain.PanicReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.reports) <= limit {
		return f.reports, nil
	}
	return f.reports[len(f.reports)-limit:], nil
}

// fakeExecutor runs the function registered under the task name, with no
// recovery of its own.
type fakeExecutor struct {
	tasks map[domain.TaskName]func(ctx context.Context, arg string) (string, error)
}

func (f *fakeExecutor) Has(task domain.TaskName) bool {
	_, ok := f.tasks[task]
	return ok
}

func (f *fakeExecutor) Run(ctx context.Context, task domain.TaskName, arg string) (string, error) {
	fn, ok := f.tasks[task]
	if !ok {
		return "", domain.ErrUnknownTask
	}
	return fn(ctx, arg)
}

type fakeNotifier struct {
	got []domain.PanicReport
}

func (f *fakeNotifier) Notify(_ context.Context, r domain.PanicReport) error {
	f.got = append(f.got, r)
	return nil
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
