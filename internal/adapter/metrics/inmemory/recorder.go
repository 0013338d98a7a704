package inmemory

import (
	"sync"

	"promptworld/internal/domain/evaluation"
)

type Snapshot struct {
	EvaluationRuns    uint64            `json:"evaluation_runs"`
	TrialsTotal       uint64            `json:"trials_total"`
	TrialsSucceeded   uint64            `json:"trials_succeeded"`
	TrialsFailed      uint64            `json:"trials_failed"`
	LastSuccessRate   *float64          `json:"last_success_rate"`
	StepsTotal        uint64            `json:"steps_total"`
	GoalsReached      uint64            `json:"goals_reached"`
	PlansFound        uint64            `json:"plans_found"`
	PlansMissing      uint64            `json:"plans_missing"`
	WorldEventsByKind map[string]uint64 `json:"world_events_by_kind"`
}

type Recorder struct {
	mu           sync.Mutex
	runs         uint64
	trials       uint64
	failures     uint64
	lastRate     *float64
	steps        uint64
	goals        uint64
	plansFound   uint64
	plansMissing uint64
	byKind       map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byKind: map[string]uint64{},
	}
}

func (r *Recorder) RecordEvaluation(m evaluation.Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	r.trials += uint64(m.Trials)
	r.failures += uint64(m.Failures)
	rate := m.SuccessRate
	r.lastRate = &rate
}

func (r *Recorder) RecordStep(done bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	if done {
		r.goals++
	}
}

func (r *Recorder) RecordWorldEvent(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind]++
}

func (r *Recorder) RecordPlan(found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if found {
		r.plansFound++
		return
	}
	r.plansMissing++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		EvaluationRuns:    r.runs,
		TrialsTotal:       r.trials,
		TrialsSucceeded:   r.trials - r.failures,
		TrialsFailed:      r.failures,
		StepsTotal:        r.steps,
		GoalsReached:      r.goals,
		PlansFound:        r.plansFound,
		PlansMissing:      r.plansMissing,
		WorldEventsByKind: make(map[string]uint64, len(r.byKind)),
	}
	if r.lastRate != nil {
		rate := *r.lastRate
		out.LastSuccessRate = &rate
	}
	for k, v := range r.byKind {
		out.WorldEventsByKind[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
