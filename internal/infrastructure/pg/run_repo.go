package pg

import (
	"context"
	"errors"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"
	"taskguard-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RunRepo struct{ db *DB }

func NewRunRepo(db *DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) q(ctx context.Context) querier {
	if tx := txFromCtx(ctx); tx != nil {
		return tx
	}
	return r.db.Pool
}

func (r *RunRepo) CreateQueued(ctx context.Context, task domain.TaskName, arg string) (string, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO task_runs(id, task, arg, status)
        VALUES ($1, $2, $3, 'queued')`
	log := logx.L().With(
		zap.String("repo", "run"),
		zap.String("operation", "CreateQueued"),
		zap.String("id", id),
		zap.String("task", string(task)),
	)
	tag, err := r.q(ctx).Exec(ctx, ins, id, task, arg)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return "", err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return id, nil
}

func (r *RunRepo) GetByID(ctx context.Context, id string) (domain.TaskRun, error) {
	const q = `
        SELECT id::text, task, arg, status, result, error, COALESCE(completed_at, requested_at)
        FROM task_runs WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "run"),
		zap.String("operation", "GetByID"),
		zap.String("id", id),
	)
	var out domain.TaskRun
	var status string
	err := r.q(ctx).QueryRow(ctx, q, id).Scan(&out.ID, &out.Task, &out.Arg, &status, &out.Result, &out.Error, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("sql.query_no_rows")
		return domain.TaskRun{}, application.ErrNotFound
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.TaskRun{}, err
	}
	out.Status = parseStatus(status)
	return out, nil
}

func (r *RunRepo) UpdateStatus(ctx context.Context, id string, st domain.RunStatus, result, errMsg *string) error {
	const up = `
        UPDATE task_runs
        SET status=$2,
            result=$3,
            error=$4,
            completed_at = CASE WHEN $2 IN ('done','failed') THEN NOW() ELSE completed_at END
        WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "run"),
		zap.String("operation", "UpdateStatus"),
		zap.String("id", id),
		zap.String("status", string(st)),
	)
	if errMsg != nil {
		log = log.With(zap.String("error", *errMsg))
	}
	tag, err := r.q(ctx).Exec(ctx, up, id, string(st), result, errMsg)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

// ClaimQueued atomically flips a batch of queued runs to processing and
// returns them. SKIP LOCKED keeps concurrent workers from double-claiming.
func (r *RunRepo) ClaimQueued(ctx context.Context, limit int) ([]application.RunClaim, error) {
	const q = `
      WITH cte AS (
        SELECT id
        FROM task_runs
        WHERE status = 'queued'
        ORDER BY requested_at
        LIMIT $1
        FOR UPDATE SKIP LOCKED
      )
      UPDATE task_runs t
      SET status = 'processing'
      FROM cte
      WHERE t.id = cte.id
      RETURNING t.id::text, t.task, t.arg;
    `
	rows, err := r.q(ctx).Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []application.RunClaim
	for rows.Next() {
		var c application.RunClaim
		if err := rows.Scan(&c.ID, &c.Task, &c.Arg); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func parseStatus(s string) domain.RunStatus {
	switch s {
	case "queued":
		return domain.RunStatusQueued
	case "processing":
		return domain.RunStatusProcessing
	case "done":
		return domain.RunStatusDone
	default:
		return domain.RunStatusFailed
	}
}
