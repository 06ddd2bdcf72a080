package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeIdem struct{ seen map[string]bool }

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

func Test_RequestRun_Idempotency_Conflict(t *testing.T) {
	t.Parallel()
	svc := NewGuardService(&fakeRunRepo{}, &fakeReportRepo{}, echoExecutor(), &fakeIdem{})
	key := "ik-1"

	_, err := svc.RequestRun(context.Background(), "echo", "x", &key)
	require.NoError(t, err)

	_, err = svc.RequestRun(context.Background(), "echo", "x", &key)
	require.ErrorIs(t, err, ErrConflict)
}

func Test_RequestRun_Idempotency_DistinctKeys(t *testing.T) {
	t.Parallel()
	svc := NewGuardService(&fakeRunRepo{}, &fakeReportRepo{}, echoExecutor(), &fakeIdem{})
	k1, k2 := "ik-1", "ik-2"

	_, err := svc.RequestRun(context.Background(), "echo", "x", &k1)
	require.NoError(t, err)
	_, err = svc.RequestRun(context.Background(), "echo", "x", &k2)
	require.NoError(t, err)
}
