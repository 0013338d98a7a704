package world

import (
	"errors"
	"fmt"
	"math"
)

type Tile string

const (
	TileGrass Tile = "G"
	TileWater Tile = "W"
	TileRock  Tile = "R"
	TileSand  Tile = "S"
	TileLava  Tile = "L"
)

var ErrUnknownTile = errors.New("unknown tile code")

const (
	waterCostDry   = 2.0
	waterCostRainy = 3.0
)

var baseCost = map[Tile]float64{
	TileGrass: 1.0,
	TileSand:  1.4,
	TileWater: waterCostDry,
	TileRock:  math.Inf(1),
	TileLava:  math.Inf(1),
}

func ParseTile(code string) (Tile, error) {
	t := Tile(code)
	if _, ok := baseCost[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTile, code)
	}
	return t, nil
}

// Cost is the traversal cost of the tile. Water gets heavier in the rain.
func (t Tile) Cost(raining bool) float64 {
	if t == TileWater && raining {
		return waterCostRainy
	}
	c, ok := baseCost[t]
	if !ok {
		return math.Inf(1)
	}
	return c
}

func (t Tile) Lethal() bool {
	return t == TileLava
}

func (t Tile) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TileWater:
		return "water"
	case TileRock:
		return "rock"
	case TileSand:
		return "sand"
	case TileLava:
		return "lava"
	default:
		return "unknown"
	}
}
