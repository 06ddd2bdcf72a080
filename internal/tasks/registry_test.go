package tasks

import (
	"context"
	"testing"

	"taskguard-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_Registry_Run(t *testing.T) {
	t.Parallel()
	r := NewBuiltinRegistry()

	out, err := r.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)

	out, err = r.Run(context.Background(), "reverse", "abc")
	require.NoError(t, err)
	require.Equal(t, "cba", out)

	out, err = r.Run(context.Background(), "sum", "1, 2, 3")
	require.NoError(t, err)
	require.Equal(t, "6", out)
}

func Test_Registry_UnknownTask(t *testing.T) {
	t.Parallel()
	r := NewBuiltinRegistry()
	require.False(t, r.Has("nope"))

	_, err := r.Run(context.Background(), "nope", "")
	require.ErrorIs(t, err, domain.ErrUnknownTask)
}

func Test_Builtins_PanicOnMalformedInput(t *testing.T) {
	t.Parallel()
	r := NewBuiltinRegistry()

	require.Panics(t, func() {
		_, _ = r.Run(context.Background(), "head", "")
	})
	require.Panics(t, func() {
		_, _ = r.Run(context.Background(), "sum", "1,two")
	})
}
