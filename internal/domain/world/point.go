package world

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}
