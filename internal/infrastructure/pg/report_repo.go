package pg

import (
	"context"
	"errors"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

type ReportRepo struct{ db *DB }

func NewReportRepo(db *DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) q(ctx context.Context) querier {
	if tx := txFromCtx(ctx); tx != nil {
		return tx
	}
	return r.db.Pool
}

func (r *ReportRepo) Append(ctx context.Context, rep domain.PanicReport) error {
	_, err := r.q(ctx).Exec(ctx, `
        INSERT INTO panic_reports(run_id, task, value, stack, occurred_at)
        VALUES ($1, $2, $3, $4, $5)
    `, rep.RunID, rep.Task, rep.Value, rep.Stack, rep.OccurredAt)
	return err
}

func (r *ReportRepo) GetByRunID(ctx context.Context, runID string) (domain.PanicReport, error) {
	const q = `
        SELECT id, run_id::text, task, value, stack, occurred_at
        FROM panic_reports WHERE run_id=$1
        ORDER BY occurred_at DESC LIMIT 1`
	var out domain.PanicReport
	err := r.q(ctx).QueryRow(ctx, q, runID).Scan(&out.ID, &out.RunID, &out.Task, &out.Value, &out.Stack, &out.OccurredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PanicReport{}, application.ErrNotFound
	}
	if err != nil {
		return domain.PanicReport{}, err
	}
	return out, nil
}

func (r *ReportRepo) ListRecent(ctx context.Context, limit int) ([]domain.PanicReport, error) {
	const q = `
        SELECT id, run_id::text, task, value, stack, occurred_at
        FROM panic_reports
        ORDER BY occurred_at DESC
        LIMIT $1`
	rows, err := r.q(ctx).Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PanicReport
	for rows.Next() {
		var rep domain.PanicReport
		if err := rows.Scan(&rep.ID, &rep.RunID, &rep.Task, &rep.Value, &rep.Stack, &rep.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
