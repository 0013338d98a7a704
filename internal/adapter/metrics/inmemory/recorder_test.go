package inmemory

import (
	"testing"

	"promptworld/internal/domain/evaluation"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordEvaluation(evaluation.Metrics{Trials: 20, SuccessRate: 0.75, Failures: 5})
	r.RecordEvaluation(evaluation.Metrics{Trials: 10, SuccessRate: 1, Failures: 0})
	r.RecordStep(false)
	r.RecordStep(true)
	r.RecordPlan(true)
	r.RecordPlan(false)
	r.RecordPlan(false)
	r.RecordWorldEvent("toggle_rain")
	r.RecordWorldEvent("toggle_rain")
	r.RecordWorldEvent("spawn_enemy")

	s := r.Snapshot()
	if s.EvaluationRuns != 2 {
		t.Fatalf("expected runs 2, got %d", s.EvaluationRuns)
	}
	if s.TrialsTotal != 30 || s.TrialsFailed != 5 || s.TrialsSucceeded != 25 {
		t.Fatalf("unexpected trial counters: %+v", s)
	}
	if s.LastSuccessRate == nil || *s.LastSuccessRate != 1 {
		t.Fatalf("expected last success rate 1, got %v", s.LastSuccessRate)
	}
	if s.StepsTotal != 2 || s.GoalsReached != 1 {
		t.Fatalf("expected steps 2 goals 1, got %d/%d", s.StepsTotal, s.GoalsReached)
	}
	if s.PlansFound != 1 || s.PlansMissing != 2 {
		t.Fatalf("expected plans 1/2, got %d/%d", s.PlansFound, s.PlansMissing)
	}
	if s.WorldEventsByKind["toggle_rain"] != 2 || s.WorldEventsByKind["spawn_enemy"] != 1 {
		t.Fatalf("unexpected event counters: %v", s.WorldEventsByKind)
	}
}

func TestRecorderSnapshotIsCopy(t *testing.T) {
	r := NewRecorder()
	r.RecordWorldEvent("toggle_rain")
	s := r.Snapshot()
	s.WorldEventsByKind["toggle_rain"] = 99

	if got := r.Snapshot().WorldEventsByKind["toggle_rain"]; got != 1 {
		t.Fatalf("snapshot leaked internal map: got=%d want=1", got)
	}
	if r.Snapshot().LastSuccessRate != nil {
		t.Fatalf("expected nil success rate before any evaluation")
	}
}
