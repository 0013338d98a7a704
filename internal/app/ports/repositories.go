package ports

import (
	"context"
	"time"

	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/world"
)

type EvaluationRun struct {
	RunID     string
	Prompt    string
	Config    world.Config
	Schedule  string
	VarySeed  bool
	Metrics   evaluation.Metrics
	CreatedAt time.Time
}

type EvaluationRunRepository interface {
	SaveRun(ctx context.Context, run EvaluationRun) error
	SaveTrials(ctx context.Context, runID string, trials []evaluation.TrialOutcome) error
	GetRun(ctx context.Context, runID string) (EvaluationRun, error)
	ListTrials(ctx context.Context, runID string) ([]evaluation.TrialOutcome, error)
	ListRuns(ctx context.Context, limit int) ([]EvaluationRun, error)
}

// WorldEvent is one entry of a session's mutation log.
type WorldEvent struct {
	Type       string         `json:"type"`
	Tick       int            `json:"tick"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type WorldEventRepository interface {
	Append(ctx context.Context, sessionID string, events []WorldEvent) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]WorldEvent, error)
}
