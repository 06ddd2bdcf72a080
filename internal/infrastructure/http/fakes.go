package httpserver

import (
	"context"
	"fmt"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"
	"taskguard-service/internal/tasks"
)

var _ application.RunRepo = (*fakeRunRepo)(nil)
var _ application.ReportRepo = (*fakeReportRepo)(nil)

type fakeRunRepo struct {
	runs map[string]domain.TaskRun
	seq  int
}

func (f *fakeRunRepo) CreateQueued(_ context.Context, task domain.TaskName, arg string) (string, error) {
	if f.runs == nil {
		f.runs = map[string]domain.TaskRun{}
	}
	f.seq++
	id := fmt.Sprintf("run-%d", f.seq)
	f.runs[id] = domain.TaskRun{ID: id, Task: task, Arg: arg, Status: domain.RunStatusQueued}
	return id, nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (domain.TaskRun, error) {
	r, ok := f.runs[id]
	if !ok {
		return domain.TaskRun{}, application.ErrNotFound
	}
	return r, nil
}

func (f *fakeRunRepo) UpdateStatus(_ context.Context, id string, st domain.RunStatus, result, errMsg *string) error {
	r, ok := f.runs[id]
	if !ok {
		return application.ErrNotFound
	}
	r.Status = st
	r.Result = result
	r.Error = errMsg
	f.runs[id] = r
	return nil
}

func (f *fakeRunRepo) ClaimQueued(_ context.Context, limit int) ([]application.RunClaim, error) {
	var out []application.RunClaim
	for id, r := range f.runs {
		if r.Status != domain.RunStatusQueued || len(out) >= limit {
			continue
		}
		r.Status = domain.RunStatusProcessing
		f.runs[id] = r
		out = append(out, application.RunClaim{ID: id, Task: r.Task, Arg: r.Arg})
	}
	return out, nil
}

type fakeReportRepo struct {
	reports []domain.PanicReport
}

func (f *fakeReportRepo) Append(_ context.Context, r domain.PanicReport) error {
	r.ID = int64(len(f.reports) + 1)
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeReportRepo) GetByRunID(_ context.Context, runID string) (domain.PanicReport, error) {
	for _, r := range f.reports {
		if r.RunID == runID {
			return r, nil
		}
	}
	return domain.PanicReport{}, application.ErrNotFound
}

func (f *fakeReportRepo) ListRecent(_ context.Context, limit int) ([]domain.PanicReport, error) {
	if len(f.reports) <= limit {
		return f.reports, nil
	}
	return f.reports[len(f.reports)-limit:], nil
}

// NewInMemoryService wires a GuardService over in-memory repos and the
// built-in task registry; router tests and the dev profile use it.
func NewInMemoryService() (*application.GuardService, *fakeRunRepo, *fakeReportRepo) {
	runs := &fakeRunRepo{runs: map[string]domain.TaskRun{}}
	reports := &fakeReportRepo{}
	svc := application.NewGuardService(runs, reports, tasks.NewBuiltinRegistry(), nil)
	return svc, runs, reports
}
