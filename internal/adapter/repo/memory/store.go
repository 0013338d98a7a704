package memory

import (
	"sync"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
)

type Store struct {
	mu       sync.RWMutex
	runs     map[string]ports.EvaluationRun
	runOrder []string
	trials   map[string][]evaluation.TrialOutcome
	events   map[string][]ports.WorldEvent
}

func NewStore() *Store {
	return &Store{
		runs:   make(map[string]ports.EvaluationRun),
		trials: make(map[string][]evaluation.TrialOutcome),
		events: make(map[string][]ports.WorldEvent),
	}
}
