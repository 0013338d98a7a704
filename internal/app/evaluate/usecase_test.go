package evaluate

import (
	"context"
	"errors"
	"testing"
	"time"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"
)

type fakeRuns struct {
	runs   map[string]ports.EvaluationRun
	trials map[string][]evaluation.TrialOutcome
	order  []string
	err    error
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{runs: map[string]ports.EvaluationRun{}, trials: map[string][]evaluation.TrialOutcome{}}
}

func (r *fakeRuns) SaveRun(_ context.Context, run ports.EvaluationRun) error {
	if r.err != nil {
		return r.err
	}
	r.runs[run.RunID] = run
	r.order = append(r.order, run.RunID)
	return nil
}

func (r *fakeRuns) SaveTrials(_ context.Context, runID string, trials []evaluation.TrialOutcome) error {
	r.trials[runID] = trials
	return nil
}

func (r *fakeRuns) GetRun(_ context.Context, runID string) (ports.EvaluationRun, error) {
	run, ok := r.runs[runID]
	if !ok {
		return ports.EvaluationRun{}, ports.ErrNotFound
	}
	return run, nil
}

func (r *fakeRuns) ListTrials(_ context.Context, runID string) ([]evaluation.TrialOutcome, error) {
	return r.trials[runID], nil
}

func (r *fakeRuns) ListRuns(_ context.Context, _ int) ([]ports.EvaluationRun, error) {
	out := []ports.EvaluationRun{}
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.runs[r.order[i]])
	}
	return out, nil
}

type countingTx struct{ calls int }

func (t *countingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fixedSchedule struct {
	events []schedule.Event
	err    error
}

func (s fixedSchedule) Parse(string) ([]schedule.Event, error) { return s.events, s.err }

type fakeKPI struct{ evaluations int }

func (k *fakeKPI) RecordEvaluation(evaluation.Metrics) { k.evaluations++ }
func (k *fakeKPI) RecordStep(bool)                     {}
func (k *fakeKPI) RecordWorldEvent(string)             {}
func (k *fakeKPI) RecordPlan(bool)                     {}

func newUseCase() (UseCase, *fakeRuns, *countingTx, *fakeKPI) {
	runs := newFakeRuns()
	tx := &countingTx{}
	kpi := &fakeKPI{}
	return UseCase{
		TxManager: tx,
		Runs:      runs,
		KPI:       kpi,
		Now:       func() time.Time { return time.Unix(1700000000, 0).UTC() },
		NewID:     func() string { return "run-1" },
	}, runs, tx, kpi
}

func TestExecute_PersistsRunAndTrialsInTx(t *testing.T) {
	uc, runs, tx, kpi := newUseCase()
	cfg := world.DefaultConfig()
	cfg.River = true

	resp, err := uc.Execute(context.Background(), Request{Config: &cfg, Trials: 10})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.RunID != "run-1" || resp.Metrics.Trials != 10 || len(resp.Trials) != 10 {
		t.Fatalf("unexpected response: %+v", resp.Metrics)
	}
	if resp.Metrics.SuccessRate < 0 || resp.Metrics.SuccessRate > 1 {
		t.Fatalf("success rate out of range: %v", resp.Metrics.SuccessRate)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one tx, got %d", tx.calls)
	}
	if _, ok := runs.runs["run-1"]; !ok || len(runs.trials["run-1"]) != 10 {
		t.Fatalf("run not persisted")
	}
	if kpi.evaluations != 1 {
		t.Fatalf("expected kpi evaluation recorded")
	}

	got, err := uc.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Metrics != resp.Metrics || len(got.Trials) != 10 {
		t.Fatalf("unexpected stored run: %+v", got)
	}
}

func TestExecute_DefaultsTrials(t *testing.T) {
	uc, _, _, _ := newUseCase()
	resp, err := uc.Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Metrics.Trials != DefaultTrials {
		t.Fatalf("expected %d trials, got %d", DefaultTrials, resp.Metrics.Trials)
	}
	if resp.Config != world.DefaultConfig() {
		t.Fatalf("expected default config, got %+v", resp.Config)
	}
}

func TestExecute_RejectsInvalidInput(t *testing.T) {
	uc, _, _, _ := newUseCase()
	uc.MaxTrials = 5

	if _, err := uc.Execute(context.Background(), Request{Trials: 6}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for too many trials, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{Trials: -1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for negative trials, got %v", err)
	}
	bad := world.DefaultConfig()
	bad.ObstacleDensity = 2
	if _, err := uc.Execute(context.Background(), Request{Config: &bad, Trials: 1}); !errors.Is(err, world.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{Trials: 1, Schedule: "at 1 toggle_rain"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest without schedule parser, got %v", err)
	}
	uc.Schedules = fixedSchedule{err: errors.New("syntax")}
	if _, err := uc.Execute(context.Background(), Request{Trials: 1, Schedule: "garbage"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad schedule, got %v", err)
	}
}

func TestExecute_UsesCustomSchedule(t *testing.T) {
	uc, _, _, _ := newUseCase()
	uc.Schedules = fixedSchedule{events: []schedule.Event{{Tick: 0, Kind: world.EventSpawnEnemy}}}
	cfg := world.DefaultConfig()
	cfg.ObstacleDensity = 0

	resp, err := uc.Execute(context.Background(), Request{Config: &cfg, Trials: 2, Schedule: "at 0 spawn_enemy"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Metrics.SuccessRate != 1 {
		t.Fatalf("expected every trial to reach the goal, got %+v", resp.Metrics)
	}
	if len(resp.Trials[0].EventsFired) != 1 || resp.Trials[0].EventsFired[0].Kind != world.EventSpawnEnemy {
		t.Fatalf("unexpected fired events: %+v", resp.Trials[0].EventsFired)
	}
}

func TestExecute_SurfacesPersistenceError(t *testing.T) {
	uc, runs, _, kpi := newUseCase()
	runs.err = errors.New("db down")
	if _, err := uc.Execute(context.Background(), Request{Trials: 1}); err == nil {
		t.Fatalf("expected persistence error")
	}
	if kpi.evaluations != 0 {
		t.Fatalf("kpi must not count failed runs")
	}
}

func TestGetAndList(t *testing.T) {
	uc, _, _, _ := newUseCase()
	if _, err := uc.Get(context.Background(), "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{Trials: 1}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	list, err := uc.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list.Runs) != 1 || list.Runs[0].RunID != "run-1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	uc.Runs = nil
	list, err = uc.List(context.Background(), 10)
	if err != nil || len(list.Runs) != 0 {
		t.Fatalf("expected empty list without repo, got %+v err=%v", list, err)
	}
}
