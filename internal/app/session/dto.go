package session

import "promptworld/internal/domain/world"

type CreateRequest struct {
	Prompt string
	Config *world.Config
}

type StepRequest struct {
	SessionID string
	Action    string
}

type EventRequest struct {
	SessionID string
	Kind      string
}

type View struct {
	SessionID      string         `json:"session_id"`
	Prompt         string         `json:"prompt,omitempty"`
	Source         Source         `json:"source"`
	Config         world.Config   `json:"config"`
	Tick           int            `json:"tick"`
	World          world.View     `json:"world"`
	PlannedActions []world.Action `json:"planned_actions"`
	PlanCursor     int            `json:"plan_cursor"`
}

type StepResponse struct {
	Result world.StepResult `json:"result"`
	View   View             `json:"session"`
}

type EventResponse struct {
	Kind           world.EventKind `json:"kind"`
	CellsConverted int             `json:"cells_converted"`
	PlanFound      bool            `json:"plan_found"`
	View           View            `json:"session"`
}

type PlanResponse struct {
	Found   bool           `json:"found"`
	Path    []world.Point  `json:"path"`
	Actions []world.Action `json:"actions"`
	View    View           `json:"session"`
}

type RunResponse struct {
	StepsTaken int              `json:"steps_taken"`
	Result     world.StepResult `json:"result"`
	View       View             `json:"session"`
}
