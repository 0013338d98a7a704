package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"
)

type EvaluationRunRepo struct {
	store *Store
}

func NewEvaluationRunRepo(store *Store) EvaluationRunRepo {
	return EvaluationRunRepo{store: store}
}

const runColumns = `run_id, prompt, config, schedule, vary_seed, trials, success_rate, avg_steps_success, failures, created_at`

func (r EvaluationRunRepo) SaveRun(ctx context.Context, run ports.EvaluationRun) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO evaluation_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`, run.RunID, run.Prompt, string(cfg), run.Schedule, run.VarySeed,
		run.Metrics.Trials, run.Metrics.SuccessRate, run.Metrics.AvgStepsSuccess, run.Metrics.Failures,
		run.CreatedAt.UnixNano())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r EvaluationRunRepo) SaveTrials(ctx context.Context, runID string, trials []evaluation.TrialOutcome) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := r.GetRun(ctx, runID); err != nil {
		return err
	}
	for _, t := range trials {
		fired := t.EventsFired
		if fired == nil {
			fired = []schedule.Event{}
		}
		b, _ := json.Marshal(fired)
		_, err := db.ExecContext(ctx, `
			INSERT INTO evaluation_trials (run_id, trial_index, seed, outcome, steps, plan_length, events_fired)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, trial_index) DO UPDATE SET
				seed = excluded.seed,
				outcome = excluded.outcome,
				steps = excluded.steps,
				plan_length = excluded.plan_length,
				events_fired = excluded.events_fired
		`, runID, t.Index, t.Seed, string(t.Outcome), t.Steps, t.PlanLength, string(b))
		if err != nil {
			return fmt.Errorf("save trial %d: %w", t.Index, err)
		}
	}
	return nil
}

func (r EvaluationRunRepo) GetRun(ctx context.Context, runID string) (ports.EvaluationRun, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return ports.EvaluationRun{}, err
	}
	run, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM evaluation_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return ports.EvaluationRun{}, ports.ErrNotFound
	}
	return run, err
}

func (r EvaluationRunRepo) ListTrials(ctx context.Context, runID string) ([]evaluation.TrialOutcome, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT trial_index, seed, outcome, steps, plan_length, events_fired
		FROM evaluation_trials WHERE run_id = ? ORDER BY trial_index
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []evaluation.TrialOutcome{}
	for rows.Next() {
		var (
			t       evaluation.TrialOutcome
			outcome string
			fired   string
		)
		if err := rows.Scan(&t.Index, &t.Seed, &outcome, &t.Steps, &t.PlanLength, &fired); err != nil {
			return nil, err
		}
		t.Outcome = evaluation.Outcome(outcome)
		if fired != "" {
			_ = json.Unmarshal([]byte(fired), &t.EventsFired)
		}
		if len(t.EventsFired) == 0 {
			t.EventsFired = nil
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r EvaluationRunRepo) ListRuns(ctx context.Context, limit int) ([]ports.EvaluationRun, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + runColumns + ` FROM evaluation_runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.EvaluationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ports.EvaluationRun, error) {
	var (
		run       ports.EvaluationRun
		cfg       string
		avg       sql.NullFloat64
		createdAt int64
	)
	err := row.Scan(&run.RunID, &run.Prompt, &cfg, &run.Schedule, &run.VarySeed,
		&run.Metrics.Trials, &run.Metrics.SuccessRate, &avg, &run.Metrics.Failures, &createdAt)
	if err != nil {
		return ports.EvaluationRun{}, err
	}
	var c world.Config
	if err := json.Unmarshal([]byte(cfg), &c); err != nil {
		return ports.EvaluationRun{}, fmt.Errorf("decode config of run %s: %w", run.RunID, err)
	}
	run.Config = c
	if avg.Valid {
		v := avg.Float64
		run.Metrics.AvgStepsSuccess = &v
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}
