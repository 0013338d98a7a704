package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGenerated_Decodes(t *testing.T) {
	w, err := FromGenerated(Generated{
		Width:   3,
		Height:  2,
		Tiles:   []string{"GWS", "RLG"},
		Start:   Point{X: 0, Y: 0},
		Goal:    Point{X: 2, Y: 1},
		Enemies: []Point{{X: 1, Y: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GWS", "RLG"}, w.Rows())
	assert.Equal(t, Point{X: 0, Y: 0}, w.Player())
	assert.Equal(t, []Point{{X: 1, Y: 0}}, w.Enemies())
	assert.False(t, w.Raining())
}

func TestFromGenerated_FailsFast(t *testing.T) {
	base := Generated{Width: 2, Height: 2, Tiles: []string{"GG", "GG"}, Goal: Point{X: 1, Y: 1}}

	cases := []struct {
		name string
		edit func(g *Generated)
		want error
	}{
		{"row count", func(g *Generated) { g.Tiles = []string{"GG"} }, ErrInvalidLayout},
		{"row width", func(g *Generated) { g.Tiles = []string{"GG", "G"} }, ErrInvalidLayout},
		{"unknown code", func(g *Generated) { g.Tiles = []string{"GG", "GX"} }, ErrUnknownTile},
		{"zero size", func(g *Generated) { g.Width = 0 }, ErrInvalidLayout},
		{"oversized", func(g *Generated) { g.Height = MaxSide + 1 }, ErrInvalidLayout},
		{"start out of bounds", func(g *Generated) { g.Start = Point{X: 2, Y: 0} }, ErrInvalidLayout},
		{"goal out of bounds", func(g *Generated) { g.Goal = Point{X: 0, Y: -1} }, ErrInvalidLayout},
		{"enemy out of bounds", func(g *Generated) { g.Enemies = []Point{{X: 5, Y: 5}} }, ErrInvalidLayout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := base
			g.Tiles = append([]string(nil), base.Tiles...)
			tc.edit(&g)
			_, err := FromGenerated(g)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
