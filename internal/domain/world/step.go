package world

import (
	"errors"
	"fmt"
)

type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
)

var ErrUnknownAction = errors.New("unknown action")

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Delta is the unit offset of the action; unknown actions do not move.
func (a Action) Delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	}
	return 0, 0
}

type Reason string

const (
	ReasonNone    Reason = ""
	ReasonReached Reason = "reached"
	ReasonLethal  Reason = "lethal"
)

type StepResult struct {
	Done   bool   `json:"done"`
	Reason Reason `json:"reason,omitempty"`
}

// Step moves the player one cell if the destination is passable. Blocked and
// out-of-bounds moves are absorbed silently.
func (w *World) Step(a Action) StepResult {
	dest := w.player.Add(a.Delta())
	if w.Passable(dest) {
		w.player = dest
	}

	res := StepResult{}
	// Lava is impassable, so movement alone never lands here. Kept for
	// placements that bypass Passable (e.g. decoded layouts starting on lava).
	if w.Lethal(w.player) {
		w.player = w.start
		res.Reason = ReasonLethal
	}
	if w.player == w.goal {
		res.Done = true
		res.Reason = ReasonReached
	}
	return res
}
