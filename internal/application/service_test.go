package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskguard-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func echoExecutor() *fakeExecutor {
	return &fakeExecutor{tasks: map[domain.TaskName]func(ctx context.Context, arg string) (string, error){
		"echo": func(_ context.Context, arg string) (string, error) { return arg, nil },
	}}
}

func Test_RequestRun(t *testing.T) {
	t.Parallel()
	runs := &fakeRunRepo{}
	svc := NewGuardService(runs, &fakeReportRepo{}, echoExecutor(), nil)

	id, err := svc.RequestRun(context.Background(), "echo", "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "run-1", id)
	require.Contains(t, runs.runs, "run-1")
	require.Equal(t, domain.RunStatusQueued, runs.runs["run-1"].Status)
}

func Test_RequestRun_UnknownTask(t *testing.T) {
	t.Parallel()
	svc := NewGuardService(&fakeRunRepo{}, &fakeReportRepo{}, echoExecutor(), nil)

	_, err := svc.RequestRun(context.Background(), "nope", "", nil)
	require.ErrorIs(t, err, domain.ErrUnknownTask)
}

func Test_RequestRun_PublishesToQueue(t *testing.T) {
	t.Parallel()
	ch := make(chan RunMsg, 1)
	svc := NewGuardService(&fakeRunRepo{}, &fakeReportRepo{}, echoExecutor(), nil, WithQueue(ch))

	id, err := svc.RequestRun(context.Background(), "echo", "hi", nil)
	require.NoError(t, err)

	select {
	case m := <-ch:
		require.Equal(t, id, m.ID)
		require.Equal(t, domain.TaskName("echo"), m.Task)
		require.Equal(t, "hi", m.Arg)
	default:
		t.Fatal("expected queued run announcement")
	}
}

func Test_GetRun_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewGuardService(&fakeRunRepo{}, &fakeReportRepo{}, echoExecutor(), nil)

	_, err := svc.GetRun(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_ProcessRun_Done(t *testing.T) {
	t.Parallel()
	runs := &fakeRunRepo{}
	svc := NewGuardService(runs, &fakeReportRepo{}, echoExecutor(), nil)

	id, err := svc.RequestRun(context.Background(), "echo", "hello", nil)
	require.NoError(t, err)

	require.NoError(t, svc.ProcessRun(context.Background(), id, "echo", "hello"))
	got := runs.runs[id]
	require.Equal(t, domain.RunStatusDone, got.Status)
	require.NotNil(t, got.Result)
	require.Equal(t, "hello", *got.Result)
	require.Nil(t, got.Error)
}

func Test_ProcessRun_TaskError(t *testing.T) {
	t.Parallel()
	exec := echoExecutor()
	exec.tasks["flaky"] = func(context.Context, string) (string, error) {
		return "", errors.New("upstream unavailable")
	}
	runs := &fakeRunRepo{}
	svc := NewGuardService(runs, &fakeReportRepo{}, exec, nil)

	id, err := svc.RequestRun(context.Background(), "flaky", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.ProcessRun(context.Background(), id, "flaky", ""))
	got := runs.runs[id]
	require.Equal(t, domain.RunStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	require.Equal(t, "upstream unavailable", *got.Error)
}

func Test_ProcessRun_PanicIntercepted(t *testing.T) {
	t.Parallel()
	exec := echoExecutor()
	exec.tasks["boom"] = func(context.Context, string) (string, error) {
		var empty []int
		_ = empty[5] // out of range
		return "", nil
	}
	runs := &fakeRunRepo{}
	reports := &fakeReportRepo{}
	notifier := &fakeNotifier{}
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc := NewGuardService(runs, reports, exec, nil,
		WithNotifier(notifier),
		WithClock(fakeClock{t: now}),
	)

	id, err := svc.RequestRun(context.Background(), "boom", "", nil)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		require.NoError(t, svc.ProcessRun(context.Background(), id, "boom", ""))
	})

	got := runs.runs[id]
	require.Equal(t, domain.RunStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	require.Contains(t, *got.Error, "panic")

	report, err := svc.GetReport(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.TaskName("boom"), report.Task)
	require.Contains(t, report.Value, "out of range")
	require.NotEmpty(t, report.Stack)
	require.Equal(t, now, report.OccurredAt)

	require.Len(t, notifier.got, 1)
	require.Equal(t, id, notifier.got[0].RunID)
}

func Test_ProcessRun_TaskRunsExactlyOnce(t *testing.T) {
	t.Parallel()
	calls := 0
	exec := echoExecutor()
	exec.tasks["count"] = func(context.Context, string) (string, error) {
		calls++
		panic("after increment")
	}
	runs := &fakeRunRepo{}
	svc := NewGuardService(runs, &fakeReportRepo{}, exec, nil)

	id, err := svc.RequestRun(context.Background(), "count", "", nil)
	require.NoError(t, err)
	require.NoError(t, svc.ProcessRun(context.Background(), id, "count", ""))
	require.Equal(t, 1, calls)
}

func Test_ListReports(t *testing.T) {
	t.Parallel()
	reports := &fakeReportRepo{reports: []domain.PanicReport{
		{ID: 1, RunID: "run-1", Task: "a"},
		{ID: 2, RunID: "run-2", Task: "b"},
		{ID: 3, RunID: "run-3", Task: "c"},
	}}
	svc := NewGuardService(&fakeRunRepo{}, reports, echoExecutor(), nil)

	out, err := svc.ListReports(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "run-2", out[0].RunID)
}
