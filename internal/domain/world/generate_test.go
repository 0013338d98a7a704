package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullConfig() Config {
	cfg := DefaultConfig()
	cfg.River = true
	cfg.Rocks = true
	cfg.Sand = true
	cfg.Lava = true
	cfg.Enemy = true
	cfg.ObstacleDensity = 0.3
	return cfg
}

func TestNewRandom_IsDeterministicPerSeed(t *testing.T) {
	a, err := NewRandom(fullConfig())
	require.NoError(t, err)
	b, err := NewRandom(fullConfig())
	require.NoError(t, err)
	assert.Equal(t, a.View(), b.View())

	cfg := fullConfig()
	cfg.Seed = 7
	c, err := NewRandom(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows(), c.Rows())
}

func TestNewRandom_PlacesStartGoalOnCentreRow(t *testing.T) {
	cfg := fullConfig()
	w, err := NewRandom(cfg)
	require.NoError(t, err)

	assert.Equal(t, Point{X: 1, Y: 8}, w.Start())
	assert.Equal(t, Point{X: 22, Y: 8}, w.Goal())
	assert.Equal(t, w.Start(), w.Player())
	assert.Equal(t, TileGrass, mustTile(t, w, w.Start()))
	assert.Equal(t, TileGrass, mustTile(t, w, w.Goal()))
	assert.Equal(t, []Point{{X: 12, Y: 8}}, w.Enemies())
	assert.False(t, w.Raining())

	cfg.StartSide = SideEast
	cfg.Rain = true
	w, err = NewRandom(cfg)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 22, Y: 8}, w.Start())
	assert.Equal(t, Point{X: 1, Y: 8}, w.Goal())
	assert.True(t, w.Raining())
}

func TestGenerate_RiverCrossesEveryRow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.River = true
	cfg.ObstacleDensity = 0
	w := Generate(cfg, NewRand(3))

	for y, row := range w.Rows() {
		water := 0
		for x, c := range row {
			if Tile(string(c)) == TileWater {
				water++
				assert.GreaterOrEqual(t, x, 1)
				assert.LessOrEqual(t, x, cfg.Width-2)
			}
		}
		if y == w.Start().Y {
			assert.LessOrEqual(t, water, 1)
			continue
		}
		assert.Equal(t, 1, water, "row %d", y)
	}
}

func TestGenerate_DisabledFeaturesLeaveGrass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ObstacleDensity = 1
	w := Generate(cfg, NewRand(1))
	for _, row := range w.Rows() {
		for _, c := range row {
			assert.Equal(t, byte('G'), byte(c))
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Width = 2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.ObstacleDensity = 1.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.Width = MaxSide + 1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.Width, bad.Height = 1<<62, 1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
	_, err := NewRandom(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad = cfg
	bad.Height = MaxSide + 1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	edge := cfg
	edge.Width, edge.Height = MaxSide, MaxSide
	require.NoError(t, edge.Validate())

	bad = cfg
	bad.StartSide = "north"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	_, err = NewRandom(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigNormalize_GoalOppositeStart(t *testing.T) {
	cfg := Config{StartSide: SideEast, GoalSide: SideEast}
	assert.Equal(t, SideWest, cfg.Normalize().GoalSide)
	assert.Equal(t, SideWest, Config{}.Normalize().StartSide)
}
