// Package schedule fires tick-bound world events in order.
package schedule

import (
	"errors"
	"fmt"
	"slices"

	"promptworld/internal/domain/world"
)

var ErrNegativeTick = errors.New("event tick must be >= 0")

type Event struct {
	Tick int             `json:"tick"`
	Kind world.EventKind `json:"kind"`
}

// Target receives fired events.
type Target interface {
	ApplyEvent(kind world.EventKind) int
}

// Scheduler holds events sorted by tick (ties keep insertion order) and a
// cursor that only moves forward until Reset.
type Scheduler struct {
	events []Event
	cursor int
}

func New(events ...Event) (*Scheduler, error) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	for _, e := range sorted {
		if e.Tick < 0 {
			return nil, fmt.Errorf("%w: %s at %d", ErrNegativeTick, e.Kind, e.Tick)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Event) int { return a.Tick - b.Tick })
	return &Scheduler{events: sorted}, nil
}

// CanonicalEvents is the evaluation schedule for a world of the given width:
// rain toggles at W/2 and obstacles spawn at 3W/4.
func CanonicalEvents(width int) []Event {
	return []Event{
		{Tick: width / 2, Kind: world.EventToggleRain},
		{Tick: 3 * width / 4, Kind: world.EventSpawnObstacles},
	}
}

// MaybeFire applies every pending event scheduled exactly at tick, in order.
// Ticks must be presented in non-decreasing order. Events whose tick was
// skipped are passed over without firing.
func (s *Scheduler) MaybeFire(target Target, tick int, onFire func(Event)) []Event {
	for s.cursor < len(s.events) && s.events[s.cursor].Tick < tick {
		s.cursor++
	}
	var fired []Event
	for s.cursor < len(s.events) && s.events[s.cursor].Tick == tick {
		ev := s.events[s.cursor]
		target.ApplyEvent(ev.Kind)
		if onFire != nil {
			onFire(ev)
		}
		fired = append(fired, ev)
		s.cursor++
	}
	return fired
}

func (s *Scheduler) Reset() {
	s.cursor = 0
}

func (s *Scheduler) Events() []Event {
	return slices.Clone(s.events)
}

// Pending is the number of events not yet fired.
func (s *Scheduler) Pending() int {
	return len(s.events) - s.cursor
}
