package planner

import (
	"errors"
	"fmt"

	"promptworld/internal/domain/world"
)

var ErrNonUnitStep = errors.New("path step is not a unit move")

// ToActions converts consecutive path cells into move commands. Paths shorter
// than two cells yield no actions.
func ToActions(path []world.Point) ([]world.Action, error) {
	if len(path) < 2 {
		return nil, nil
	}
	out := make([]world.Action, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		a, err := actionFor(path[i-1], path[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func actionFor(from, to world.Point) (world.Action, error) {
	switch [2]int{to.X - from.X, to.Y - from.Y} {
	case [2]int{1, 0}:
		return world.ActionRight, nil
	case [2]int{-1, 0}:
		return world.ActionLeft, nil
	case [2]int{0, 1}:
		return world.ActionDown, nil
	case [2]int{0, -1}:
		return world.ActionUp, nil
	}
	return "", fmt.Errorf("%w: %v -> %v", ErrNonUnitStep, from, to)
}
