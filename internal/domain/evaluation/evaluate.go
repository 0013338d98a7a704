// Package evaluation runs batches of independent plan-and-execute trials and
// aggregates their outcomes.
package evaluation

import (
	"promptworld/internal/domain/planner"
	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"
)

type Outcome string

const (
	OutcomeReached   Outcome = "reached"
	OutcomeNoPath    Outcome = "no_path"
	OutcomeExhausted Outcome = "exhausted"
)

// Metrics is the flat summary exported as metrics.json.
type Metrics struct {
	Trials          int      `json:"trials"`
	SuccessRate     float64  `json:"success_rate"`
	AvgStepsSuccess *float64 `json:"avg_steps_success"`
	Failures        int      `json:"failures"`
}

type TrialOutcome struct {
	Index       int              `json:"index"`
	Seed        int64            `json:"seed"`
	Outcome     Outcome          `json:"outcome"`
	Steps       int              `json:"steps"`
	PlanLength  int              `json:"plan_length"`
	EventsFired []schedule.Event `json:"events_fired,omitempty"`
}

type Result struct {
	Metrics Metrics        `json:"metrics"`
	Trials  []TrialOutcome `json:"trials"`
}

type Options struct {
	// Events replaces the canonical schedule when non-nil.
	Events []schedule.Event
	// VarySeed gives trial i the seed cfg.Seed+i instead of identical terrain.
	VarySeed bool
	// OnEvent is called for every fired event.
	OnEvent func(trial int, ev schedule.Event)
}

// Evaluate runs trials sequentially, each on its own world and scheduler.
// Each trial plans once before any event fires and never re-plans.
func Evaluate(cfg world.Config, trials int, opts Options) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if opts.Events != nil {
		// reject a bad schedule before running anything
		if _, err := schedule.New(opts.Events...); err != nil {
			return Result{}, err
		}
	}

	outcomes := make([]TrialOutcome, 0, max(trials, 0))
	for i := 0; i < trials; i++ {
		trialCfg := cfg
		if opts.VarySeed {
			trialCfg.Seed = cfg.Seed + int64(i)
		}
		outcome, err := runTrial(i, trialCfg, opts)
		if err != nil {
			return Result{}, err
		}
		outcomes = append(outcomes, outcome)
	}
	return Result{Metrics: Summarize(outcomes), Trials: outcomes}, nil
}

func runTrial(index int, cfg world.Config, opts Options) (TrialOutcome, error) {
	w := world.Generate(cfg, world.NewRand(cfg.Seed))
	events := opts.Events
	if events == nil {
		events = schedule.CanonicalEvents(w.Width())
	}
	sched, err := schedule.New(events...)
	if err != nil {
		return TrialOutcome{}, err
	}

	out := TrialOutcome{Index: index, Seed: cfg.Seed, Outcome: OutcomeExhausted}
	path, ok := planner.Plan(w)
	if !ok {
		out.Outcome = OutcomeNoPath
		return out, nil
	}
	actions, err := planner.ToActions(path)
	if err != nil {
		return TrialOutcome{}, err
	}
	out.PlanLength = len(actions)

	onFire := func(ev schedule.Event) {
		out.EventsFired = append(out.EventsFired, ev)
		if opts.OnEvent != nil {
			opts.OnEvent(index, ev)
		}
	}
	for tick, a := range actions {
		sched.MaybeFire(w, tick, onFire)
		res := w.Step(a)
		out.Steps = tick + 1
		if res.Done && res.Reason == world.ReasonReached {
			out.Outcome = OutcomeReached
			return out, nil
		}
	}
	return out, nil
}

// Summarize aggregates trial outcomes. The average is nil when nothing
// succeeded.
func Summarize(outcomes []TrialOutcome) Metrics {
	m := Metrics{Trials: len(outcomes)}
	successes, stepSum := 0, 0
	for _, o := range outcomes {
		if o.Outcome == OutcomeReached {
			successes++
			stepSum += o.Steps
			continue
		}
		m.Failures++
	}
	if m.Trials > 0 {
		m.SuccessRate = float64(successes) / float64(m.Trials)
	}
	if successes > 0 {
		avg := float64(stepSum) / float64(successes)
		m.AvgStepsSuccess = &avg
	}
	return m
}
