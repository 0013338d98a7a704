package world

import (
	"errors"
	"fmt"
)

type EventKind string

const (
	EventToggleRain     EventKind = "toggle_rain"
	EventSpawnObstacles EventKind = "spawn_obstacles"
	EventSpawnEnemy     EventKind = "spawn_enemy"
)

// ObstacleSeed seeds the obstacle spawner on every call, so repeated spawns
// revisit the same candidate cells.
const ObstacleSeed int64 = 123

var ErrUnknownEvent = errors.New("unknown event kind")

func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventToggleRain, EventSpawnObstacles, EventSpawnEnemy:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// ApplyEvent mutates the world and returns the number of cells converted to
// rock (always 0 for events other than spawn_obstacles).
func (w *World) ApplyEvent(kind EventKind) int {
	switch kind {
	case EventToggleRain:
		w.raining = !w.raining
	case EventSpawnObstacles:
		return w.spawnObstacles()
	case EventSpawnEnemy:
		w.enemies = append(w.enemies, w.center())
	}
	return 0
}

func (w *World) spawnObstacles() int {
	rng := NewRand(ObstacleSeed)
	n := max(1, w.width*w.height/40)
	converted := 0
	for range n {
		p := Point{X: rng.IntN(w.width), Y: rng.IntN(w.height)}
		if p == w.player || p == w.goal {
			continue
		}
		if w.tiles[p.Y][p.X] != TileGrass {
			continue
		}
		w.tiles[p.Y][p.X] = TileRock
		converted++
	}
	return converted
}

func (w *World) center() Point {
	return Point{X: w.width / 2, Y: w.height / 2}
}
