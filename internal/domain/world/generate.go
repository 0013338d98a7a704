package world

import "math/rand/v2"

const (
	riverShiftChance = 0.4
	rockChance       = 0.5
	sandChance       = 0.5
	lavaChance       = 0.2
)

// NewRandom builds a world from cfg using a generator seeded with cfg.Seed.
func NewRandom(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Generate(cfg, NewRand(cfg.Seed)), nil
}

func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Generate is deterministic for a given cfg and rng state. cfg must be valid.
func Generate(cfg Config, rng *rand.Rand) *World {
	cfg = cfg.Normalize()
	w, h := cfg.Width, cfg.Height
	tiles := make([][]Tile, h)
	for y := range tiles {
		row := make([]Tile, w)
		for x := range row {
			row[x] = TileGrass
		}
		tiles[y] = row
	}

	if cfg.River {
		carveRiver(tiles, w, rng)
	}
	scatterObstacles(tiles, cfg, rng)

	cy := h / 2
	start := Point{X: sideColumn(cfg.StartSide, w), Y: cy}
	goal := Point{X: sideColumn(cfg.GoalSide, w), Y: cy}
	tiles[start.Y][start.X] = TileGrass
	tiles[goal.Y][goal.X] = TileGrass

	var enemies []Point
	if cfg.Enemy {
		enemies = append(enemies, Point{X: w / 2, Y: h / 2}) // grid centre
	}

	return &World{
		width:   w,
		height:  h,
		tiles:   tiles,
		start:   start,
		goal:    goal,
		player:  start,
		enemies: enemies,
		raining: cfg.Rain,
	}
}

func carveRiver(tiles [][]Tile, width int, rng *rand.Rand) {
	lo, hi := width/3, 2*width/3
	x := lo + rng.IntN(hi-lo+1)
	for y := range tiles {
		tiles[y][x] = TileWater
		if rng.Float64() < riverShiftChance {
			if rng.IntN(2) == 0 {
				x--
			} else {
				x++
			}
			x = clamp(x, 1, width-2)
		}
	}
}

func scatterObstacles(tiles [][]Tile, cfg Config, rng *rand.Rand) {
	for y := range tiles {
		for x := range tiles[y] {
			if tiles[y][x] != TileGrass {
				continue
			}
			if rng.Float64() >= cfg.ObstacleDensity {
				continue
			}
			switch {
			case cfg.Rocks && rng.Float64() < rockChance:
				tiles[y][x] = TileRock
			case cfg.Sand && rng.Float64() < sandChance:
				tiles[y][x] = TileSand
			case cfg.Lava && rng.Float64() < lavaChance:
				tiles[y][x] = TileLava
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
