package world

import "math"

// World is a mutable tile grid with start, goal, player, enemies and weather.
// It is not safe for concurrent use; callers serialize access per instance.
type World struct {
	width   int
	height  int
	tiles   [][]Tile
	start   Point
	goal    Point
	player  Point
	enemies []Point
	raining bool
}

func (w *World) Width() int    { return w.width }
func (w *World) Height() int   { return w.height }
func (w *World) Start() Point  { return w.start }
func (w *World) Goal() Point   { return w.goal }
func (w *World) Player() Point { return w.player }
func (w *World) Raining() bool { return w.raining }

func (w *World) Enemies() []Point {
	out := make([]Point, len(w.enemies))
	copy(out, w.enemies)
	return out
}

// Clone returns a deep copy that shares no state with w.
func (w *World) Clone() *World {
	c := *w
	c.tiles = make([][]Tile, len(w.tiles))
	for y, row := range w.tiles {
		c.tiles[y] = append([]Tile(nil), row...)
	}
	c.enemies = w.Enemies()
	return &c
}

func (w *World) InBounds(p Point) bool {
	return p.X >= 0 && p.X < w.width && p.Y >= 0 && p.Y < w.height
}

// TileAt returns the tile at p; ok is false outside the grid.
func (w *World) TileAt(p Point) (Tile, bool) {
	if !w.InBounds(p) {
		return "", false
	}
	return w.tiles[p.Y][p.X], true
}

// Cost is derived on every call so a weather toggle applies immediately.
// Cells outside the grid cost +Inf.
func (w *World) Cost(p Point) float64 {
	t, _ := w.TileAt(p)
	return t.Cost(w.raining)
}

func (w *World) Passable(p Point) bool {
	if !w.InBounds(p) {
		return false
	}
	return !math.IsInf(w.Cost(p), 1)
}

func (w *World) Lethal(p Point) bool {
	t, ok := w.TileAt(p)
	return ok && t.Lethal()
}

// Rows returns a copy of the grid as rows of tile codes.
func (w *World) Rows() []string {
	out := make([]string, w.height)
	buf := make([]byte, w.width)
	for y, row := range w.tiles {
		for x, t := range row {
			buf[x] = string(t)[0]
		}
		out[y] = string(buf)
	}
	return out
}

// View is a read-only snapshot for renderers and API responses.
type View struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Tiles   []string `json:"tiles"`
	Start   Point    `json:"start"`
	Goal    Point    `json:"goal"`
	Player  Point    `json:"player"`
	Enemies []Point  `json:"enemies"`
	Raining bool     `json:"raining"`
}

func (w *World) View() View {
	return View{
		Width:   w.width,
		Height:  w.height,
		Tiles:   w.Rows(),
		Start:   w.start,
		Goal:    w.goal,
		Player:  w.player,
		Enemies: w.Enemies(),
		Raining: w.raining,
	}
}
