// Package render draws world views as PNG frames.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"promptworld/internal/domain/world"
)

const (
	DefaultScale = 24
	MinScale     = 16
	MaxScale     = 64

	captionHeight = 18
	captionPad    = 4
)

var ErrEmptyView = errors.New("view has no tiles")

var tileColors = map[world.Tile]color.RGBA{
	world.TileGrass: {R: 90, G: 170, B: 90, A: 255},
	world.TileWater: {R: 70, G: 120, B: 200, A: 255},
	world.TileRock:  {R: 120, G: 120, B: 120, A: 255},
	world.TileSand:  {R: 210, G: 190, B: 120, A: 255},
	world.TileLava:  {R: 220, G: 70, B: 40, A: 255},
}

var (
	unknownColor = color.RGBA{A: 255}
	goalColor    = color.RGBA{R: 250, G: 220, B: 60, A: 255}
	playerColor  = color.RGBA{R: 60, G: 120, B: 255, A: 255}
	enemyColor   = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	rainColor    = color.RGBA{R: 180, G: 180, B: 255, A: 255}
	captionBG    = color.RGBA{R: 20, G: 20, B: 24, A: 255}
	captionFG    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

type PNGRenderer struct {
	// Caption adds a text strip under the map.
	Caption bool
}

func NewPNGRenderer() PNGRenderer {
	return PNGRenderer{Caption: true}
}

// ClampScale maps a requested pixel-per-cell scale into the supported range;
// zero or negative selects DefaultScale.
func ClampScale(scale int) int {
	if scale <= 0 {
		return DefaultScale
	}
	return max(MinScale, min(MaxScale, scale))
}

func (r PNGRenderer) Render(v world.View, scale int) ([]byte, error) {
	img, err := r.Draw(v, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw paints the frame without encoding it.
func (r PNGRenderer) Draw(v world.View, scale int) (*image.RGBA, error) {
	if v.Width <= 0 || v.Height <= 0 || len(v.Tiles) != v.Height {
		return nil, ErrEmptyView
	}
	s := ClampScale(scale)
	mapW, mapH := v.Width*s, v.Height*s
	extra := 0
	if r.Caption {
		extra = captionHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, mapW, mapH+extra))

	for y, row := range v.Tiles {
		for x := 0; x < v.Width && x < len(row); x++ {
			c, ok := tileColors[world.Tile(row[x:x+1])]
			if !ok {
				c = unknownColor
			}
			fillRect(img, image.Rect(x*s, y*s, (x+1)*s, (y+1)*s), c)
		}
	}

	cell := func(p world.Point, inset int) image.Rectangle {
		return image.Rect(p.X*s+inset, p.Y*s+inset, (p.X+1)*s-inset, (p.Y+1)*s-inset)
	}
	strokeRect(img, cell(v.Goal, 4), 3, goalColor)
	fillEllipse(img, cell(v.Player, 4), playerColor)
	for _, e := range v.Enemies {
		strokeEllipse(img, cell(e, 6), 2, enemyColor)
	}

	if v.Raining {
		for y := 0; y < mapH; y += 8 {
			for x := 0; x < mapW; x += 16 {
				drawLine(img, x, y, x+2, y+6, rainColor)
			}
		}
	}

	if r.Caption {
		strip := image.Rect(0, mapH, mapW, mapH+captionHeight)
		fillRect(img, strip, captionBG)
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(captionFG),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(captionPad, mapH+captionHeight-captionPad-1),
		}
		d.DrawString(Caption(v))
	}
	return img, nil
}

// Caption is the one-line frame summary.
func Caption(v world.View) string {
	return fmt.Sprintf("start=(%d,%d) goal=(%d,%d) rain=%t",
		v.Start.X, v.Start.Y, v.Goal.X, v.Goal.Y, v.Raining)
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r image.Rectangle, width int, c color.RGBA) {
	if r.Empty() {
		return
	}
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// ellipseDist returns the normalised squared distance of the pixel centre
// (x,y) from the centre of r, shrunk by inset pixels on each side.
func ellipseDist(r image.Rectangle, inset float64, x, y int) float64 {
	rx := float64(r.Dx())/2 - inset
	ry := float64(r.Dy())/2 - inset
	if rx <= 0 || ry <= 0 {
		return 2
	}
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	dx := (float64(x) + 0.5 - cx) / rx
	dy := (float64(y) + 0.5 - cy) / ry
	return dx*dx + dy*dy
}

func fillEllipse(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	clip := r.Intersect(img.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if ellipseDist(r, 0, x, y) <= 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func strokeEllipse(img *image.RGBA, r image.Rectangle, width int, c color.RGBA) {
	clip := r.Intersect(img.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if ellipseDist(r, 0, x, y) <= 1 && ellipseDist(r, float64(width), x, y) > 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLine is Bresenham; pixels outside the image are dropped.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	b := img.Bounds()
	for {
		if (image.Point{X: x0, Y: y0}).In(b) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
