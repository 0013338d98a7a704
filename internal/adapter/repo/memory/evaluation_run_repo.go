package memory

import (
	"context"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
)

type EvaluationRunRepo struct {
	store *Store
}

func NewEvaluationRunRepo(store *Store) EvaluationRunRepo {
	return EvaluationRunRepo{store: store}
}

func (r EvaluationRunRepo) SaveRun(ctx context.Context, run ports.EvaluationRun) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.runs[run.RunID]; exists {
		return ports.ErrConflict
	}
	r.store.runs[run.RunID] = run
	r.store.runOrder = append(r.store.runOrder, run.RunID)
	return nil
}

func (r EvaluationRunRepo) SaveTrials(ctx context.Context, runID string, trials []evaluation.TrialOutcome) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.runs[runID]; !exists {
		return ports.ErrNotFound
	}
	r.store.trials[runID] = append([]evaluation.TrialOutcome(nil), trials...)
	return nil
}

func (r EvaluationRunRepo) GetRun(ctx context.Context, runID string) (ports.EvaluationRun, error) {
	defer r.store.rlock(ctx)()
	run, ok := r.store.runs[runID]
	if !ok {
		return ports.EvaluationRun{}, ports.ErrNotFound
	}
	return run, nil
}

func (r EvaluationRunRepo) ListTrials(ctx context.Context, runID string) ([]evaluation.TrialOutcome, error) {
	defer r.store.rlock(ctx)()
	trials, ok := r.store.trials[runID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]evaluation.TrialOutcome(nil), trials...), nil
}

// ListRuns returns the newest runs first.
func (r EvaluationRunRepo) ListRuns(ctx context.Context, limit int) ([]ports.EvaluationRun, error) {
	defer r.store.rlock(ctx)()
	out := make([]ports.EvaluationRun, 0, len(r.store.runOrder))
	for i := len(r.store.runOrder) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.store.runs[r.store.runOrder[i]])
	}
	return out, nil
}
