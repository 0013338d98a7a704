package world

import (
	"errors"
	"fmt"
)

var ErrInvalidLayout = errors.New("invalid world layout")

// Generated is a world layout supplied by an external generator. Tiles are
// rows of single-character codes.
type Generated struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Tiles   []string `json:"tiles"`
	Start   Point    `json:"start"`
	Goal    Point    `json:"goal"`
	Enemies []Point  `json:"enemies,omitempty"`
}

// FromGenerated decodes an external layout. The player starts on Start and
// weather starts dry. Tiles at start and goal are kept as given.
func FromGenerated(g Generated) (*World, error) {
	if g.Width <= 0 || g.Height <= 0 || g.Width > MaxSide || g.Height > MaxSide {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLayout, g.Width, g.Height)
	}
	if len(g.Tiles) != g.Height {
		return nil, fmt.Errorf("%w: %d rows for height %d", ErrInvalidLayout, len(g.Tiles), g.Height)
	}
	tiles := make([][]Tile, g.Height)
	for y, row := range g.Tiles {
		if len(row) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells for width %d", ErrInvalidLayout, y, len(row), g.Width)
		}
		tiles[y] = make([]Tile, g.Width)
		for x := 0; x < len(row); x++ {
			t, err := ParseTile(row[x : x+1])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			tiles[y][x] = t
		}
	}

	w := &World{
		width:  g.Width,
		height: g.Height,
		tiles:  tiles,
		start:  g.Start,
		goal:   g.Goal,
		player: g.Start,
	}
	if !w.InBounds(g.Start) {
		return nil, fmt.Errorf("%w: start %v out of bounds", ErrInvalidLayout, g.Start)
	}
	if !w.InBounds(g.Goal) {
		return nil, fmt.Errorf("%w: goal %v out of bounds", ErrInvalidLayout, g.Goal)
	}
	for _, e := range g.Enemies {
		if !w.InBounds(e) {
			return nil, fmt.Errorf("%w: enemy %v out of bounds", ErrInvalidLayout, e)
		}
	}
	w.enemies = append([]Point(nil), g.Enemies...)
	return w, nil
}
