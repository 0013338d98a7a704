package evaluate

import (
	"time"

	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/world"
)

type Request struct {
	Prompt   string
	Config   *world.Config
	Trials   int
	Schedule string
	VarySeed bool
}

type Response struct {
	RunID     string                    `json:"run_id"`
	Prompt    string                    `json:"prompt,omitempty"`
	Config    world.Config              `json:"config"`
	Schedule  string                    `json:"schedule,omitempty"`
	VarySeed  bool                      `json:"vary_seed"`
	Metrics   evaluation.Metrics        `json:"metrics"`
	Trials    []evaluation.TrialOutcome `json:"trials,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

type ListResponse struct {
	Runs []Response `json:"runs"`
}
