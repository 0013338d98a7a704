package replay

import "promptworld/internal/app/ports"

type Request struct {
	SessionID string
	Limit     int
	FromTick  int
	ToTick    int
}

type Summary struct {
	ByType      map[string]int `json:"by_type"`
	LatestTick  int            `json:"latest_tick"`
	GoalReached bool           `json:"goal_reached"`
}

type Response struct {
	SessionID string             `json:"session_id"`
	Events    []ports.WorldEvent `json:"events"`
	Summary   Summary            `json:"summary"`
}
