package replay

import (
	"context"
	"errors"
	"strings"

	"promptworld/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.WorldEventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListBySessionID(ctx, req.SessionID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTickWindow(events, req.FromTick, req.ToTick)
	return Response{SessionID: req.SessionID, Events: events, Summary: summarize(events)}, nil
}

func filterByTickWindow(events []ports.WorldEvent, from, to int) []ports.WorldEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]ports.WorldEvent, 0, len(events))
	for _, evt := range events {
		if from > 0 && evt.Tick < from {
			continue
		}
		if to > 0 && evt.Tick > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// summarize counts events per type and picks the newest tick seen.
func summarize(events []ports.WorldEvent) Summary {
	s := Summary{ByType: map[string]int{}}
	for _, evt := range events {
		s.ByType[evt.Type]++
		if evt.Tick > s.LatestTick {
			s.LatestTick = evt.Tick
		}
		if evt.Type == "goal_reached" {
			s.GoalReached = true
		}
	}
	return s
}
