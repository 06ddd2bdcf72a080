package bootstrap

import (
	"context"
	"errors"
	"os"

	"taskguard-service/internal/application"
	"taskguard-service/internal/config"
	"taskguard-service/internal/infrastructure/logx"
	"taskguard-service/internal/infrastructure/notify"
	"taskguard-service/internal/infrastructure/pg"
	redisstore "taskguard-service/internal/infrastructure/redis"
	"taskguard-service/internal/tasks"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")

func useRedis() bool {
	return os.Getenv("IDEMPOTENCY_BACKEND") != "none"
}

type Repos struct {
	RunRepo    application.RunRepo
	ReportRepo application.ReportRepo
}

type Services struct {
	Idem     application.IdempotencyStore
	Notifier application.PanicNotifier
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing pg")
		}
		db.Close()
	}
	return db, cleanup, nil
}

func ProvideRepos(db *pg.DB) Repos {
	return Repos{
		RunRepo:    pg.NewRunRepo(db),
		ReportRepo: pg.NewReportRepo(db),
	}
}

func ProvideRedisClient(cfg config.Config) (*redis.Client, func()) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }
}

// ProvideServices builds the idempotency store and the panic notifier.
// IDEMPOTENCY_BACKEND=none and an empty PANIC_WEBHOOK_URL select noops.
func ProvideServices(cfg config.Config) (Services, func()) {
	s := Services{
		Idem:     application.NoopIdempotency{},
		Notifier: application.NoopNotifier{},
	}
	cleanup := func() {}

	if useRedis() {
		client, closeClient := ProvideRedisClient(cfg)
		s.Idem = redisstore.New(client, cfg.RedisTTL)
		cleanup = closeClient
	}
	if cfg.WebhookURL != "" {
		s.Notifier = notify.NewWebhook(cfg.WebhookURL, cfg.WebhookToken)
	}
	return s, cleanup
}

func ProvideRegistry() *tasks.Registry { return tasks.NewBuiltinRegistry() }

func ProvideGuardService(r Repos, reg *tasks.Registry, s Services, db *pg.DB, queue chan application.RunMsg) *application.GuardService {
	opts := []application.Option{
		application.WithNotifier(s.Notifier),
		application.WithUnitOfWork(&pg.UnitOfWork{Pool: db.Pool}),
	}
	if queue != nil {
		opts = append(opts, application.WithQueue(queue))
	}
	return application.NewGuardService(r.RunRepo, r.ReportRepo, reg, s.Idem, opts...)
}
