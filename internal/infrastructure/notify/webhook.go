package notify

import (
	"context"
	"net/http"
	"time"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"
	"taskguard-service/internal/infrastructure/httpx"
	"taskguard-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

// Ensure Webhook implements application.PanicNotifier.
var _ application.PanicNotifier = (*Webhook)(nil)

// Webhook posts intercepted panic reports to an external HTTP receiver.
// Delivery is best effort; the run outcome is already persisted by the time
// a notification goes out.
type Webhook struct {
	URL    string
	Client *httpx.Client
}

func NewWebhook(url, token string) *Webhook {
	return &Webhook{
		URL: url,
		Client: &httpx.Client{
			HTTP:  &http.Client{Timeout: 4 * time.Second},
			Token: token,
		},
	}
}

type payload struct {
	RunID      string    `json:"run_id"`
	Task       string    `json:"task"`
	Value      string    `json:"value"`
	Stack      string    `json:"stack"`
	OccurredAt time.Time `json:"occurred_at"`
}

// sugared adapts *zap.SugaredLogger to the httpx.Logger surface.
type sugared struct{ s *zap.SugaredLogger }

func (z sugared) Info(msg string, args ...any) { z.s.Infow(msg, args...) }
func (z sugared) Warn(msg string, args ...any) { z.s.Warnw(msg, args...) }

func (w *Webhook) Notify(ctx context.Context, r domain.PanicReport) error {
	log := logx.L().With(zap.String("notifier", "webhook"), zap.String("run_id", r.RunID))
	err := w.Client.PostJSON(ctx, w.URL, payload{
		RunID:      r.RunID,
		Task:       string(r.Task),
		Value:      r.Value,
		Stack:      r.Stack,
		OccurredAt: r.OccurredAt,
	}, nil, sugared{s: log.Sugar()})
	if err != nil {
		log.Warn("webhook.delivery_failed", zap.Error(err))
		return err
	}
	log.Info("webhook.delivered")
	return nil
}
