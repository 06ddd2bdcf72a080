package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskguard-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_Webhook_DeliversReport(t *testing.T) {
	t.Parallel()
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "secret")
	err := wh.Notify(context.Background(), domain.PanicReport{
		RunID:      "run-1",
		Task:       "head",
		Value:      "index out of range",
		Stack:      "goroutine 1 [running]:",
		OccurredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, "run-1", got["run_id"])
	require.Equal(t, "head", got["task"])
}

func Test_Webhook_RetriesServerError(t *testing.T) {
	t.Parallel()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "")
	err := wh.Notify(context.Background(), domain.PanicReport{RunID: "run-2", Task: "sum"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, calls, 2)
}
