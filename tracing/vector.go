package tracing

import (
	"fmt"
	"image"
	"math"

	"brandkit/utils"
)

// Path is one filled layer: all of its contours are filled together with
// the even-odd rule, so holes are contours nested inside outer ones.
type Path struct {
	Contours []Contour  `json:"contours"`
	Fill     utils.Color `json:"fill"`
}

// Vector is a traced image. Coordinates are in the working raster's pixel
// space, Width x Height.
type Vector struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Paths  []Path `json:"paths"`
	// Background is painted behind the paths; nil means transparent
	Background *utils.Color `json:"background,omitempty"`
	// Smooth and CornerAngle control how contours become SVG/raster segments
	Smooth      bool    `json:"smooth"`
	CornerAngle float64 `json:"cornerAngle"`
}

// Limits on vectors accepted from outside the tracer
const (
	MaxPaths    = 64
	MaxContours = 50_000
	MaxPoints   = 2_000_000
)

// CheckCanvas verifies that the canvas is 1..maxSide on both sides and every
// point is finite and on the canvas.
func (v *Vector) CheckCanvas(maxSide int) error {
	if v.Width < 1 || v.Height < 1 || v.Width > maxSide || v.Height > maxSide {
		return fmt.Errorf("%w: canvas %dx%d outside 1..%d", ErrInvalidVector, v.Width, v.Height, maxSide)
	}
	if math.IsNaN(v.CornerAngle) || math.IsInf(v.CornerAngle, 0) {
		return fmt.Errorf("%w: corner angle is not finite", ErrInvalidVector)
	}
	w, h := float64(v.Width), float64(v.Height)
	for i, p := range v.Paths {
		for _, c := range p.Contours {
			for _, pt := range c {
				// NaN fails both comparisons
				if !(pt.X >= 0 && pt.X <= w && pt.Y >= 0 && pt.Y <= h) {
					return fmt.Errorf("%w: path %d has point (%v, %v) off the canvas", ErrInvalidVector, i, pt.X, pt.Y)
				}
			}
		}
	}
	return nil
}

// Validate is CheckCanvas plus caps on the number of paths, contours and
// points.
func (v *Vector) Validate(maxSide int) error {
	if len(v.Paths) > MaxPaths {
		return fmt.Errorf("%w: %d paths, at most %d", ErrInvalidVector, len(v.Paths), MaxPaths)
	}
	contours, points := 0, 0
	for _, p := range v.Paths {
		contours += len(p.Contours)
		for _, c := range p.Contours {
			points += len(c)
		}
	}
	if contours > MaxContours {
		return fmt.Errorf("%w: %d contours, at most %d", ErrInvalidVector, contours, MaxContours)
	}
	if points > MaxPoints {
		return fmt.Errorf("%w: %d points, at most %d", ErrInvalidVector, points, MaxPoints)
	}
	return v.CheckCanvas(maxSide)
}

// Clone returns a deep copy
func (v *Vector) Clone() *Vector {
	out := *v
	out.Paths = make([]Path, len(v.Paths))
	for i, p := range v.Paths {
		cs := make([]Contour, len(p.Contours))
		for j, c := range p.Contours {
			cs[j] = append(Contour{}, c...)
		}
		out.Paths[i] = Path{Contours: cs, Fill: p.Fill}
	}
	if v.Background != nil {
		bg := *v.Background
		out.Background = &bg
	}
	return &out
}

// Recolor returns a copy with every fill passed through fn
func (v *Vector) Recolor(fn func(utils.Color) utils.Color) *Vector {
	out := v.Clone()
	for i := range out.Paths {
		out.Paths[i].Fill = fn(out.Paths[i].Fill)
	}
	return out
}

// Fill returns a copy with every path filled with c
func (v *Vector) Fill(c utils.Color) *Vector {
	return v.Recolor(func(utils.Color) utils.Color { return c })
}

// WithBackground returns a copy with the given background (nil for none)
func (v *Vector) WithBackground(bg *utils.Color) *Vector {
	out := v.Clone()
	if bg != nil {
		c := *bg
		out.Background = &c
	} else {
		out.Background = nil
	}
	return out
}

// Colors lists the distinct fills in paint order
func (v *Vector) Colors() []utils.Color {
	var out []utils.Color
	seen := make(map[utils.Color]bool)
	for _, p := range v.Paths {
		if !seen[p.Fill] {
			seen[p.Fill] = true
			out = append(out, p.Fill)
		}
	}
	return out
}

// Bounds is the integer box enclosing every contour point
func (v *Vector) Bounds() image.Rectangle {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range v.Paths {
		for _, c := range p.Contours {
			for _, pt := range c {
				minX = math.Min(minX, pt.X)
				minY = math.Min(minY, pt.Y)
				maxX = math.Max(maxX, pt.X)
				maxY = math.Max(maxY, pt.Y)
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// Frame returns a copy whose canvas is r: contours are translated so r.Min
// becomes the origin. Parts outside r are kept and simply fall off canvas.
func (v *Vector) Frame(r image.Rectangle) *Vector {
	out := v.Clone()
	dx, dy := float64(r.Min.X), float64(r.Min.Y)
	for i := range out.Paths {
		for j := range out.Paths[i].Contours {
			c := out.Paths[i].Contours[j]
			for k := range c {
				c[k].X -= dx
				c[k].Y -= dy
			}
		}
	}
	out.Width, out.Height = r.Dx(), r.Dy()
	return out
}

// SquareFrame is the square, padded box centered on the artwork. pad is a
// fraction of the artwork's longer side added on every edge.
func (v *Vector) SquareFrame(pad float64) image.Rectangle {
	b := v.Bounds()
	if b.Empty() {
		return image.Rect(0, 0, v.Width, v.Height)
	}
	side := b.Dx()
	if b.Dy() > side {
		side = b.Dy()
	}
	margin := int(math.Round(float64(side) * pad))
	side += 2 * margin
	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2
	minX := cx - side/2
	minY := cy - side/2
	return image.Rect(minX, minY, minX+side, minY+side)
}

type segment struct {
	op  byte // 'M', 'L', 'Q' or 'Z'
	pts [2]Point
}

func mid(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// turnAngle is the change of heading at b in degrees, 0 for straight on
func turnAngle(a, b, c Point) float64 {
	ux, uy := b.X-a.X, b.Y-a.Y
	vx, vy := c.X-b.X, c.Y-b.Y
	lu := math.Hypot(ux, uy)
	lv := math.Hypot(vx, vy)
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := (ux*vx + uy*vy) / (lu * lv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// segments turns a contour into drawing commands shared by the SVG writer and
// the rasterizer. Smoothing bends the outline through edge midpoints with the
// vertices as control points; vertices turning sharper than cornerAngle stay
// sharp.
func (c Contour) segments(smooth bool, cornerAngle float64) []segment {
	n := len(c)
	if n < 3 {
		return nil
	}
	out := make([]segment, 0, 2*n+2)
	if !smooth {
		out = append(out, segment{op: 'M', pts: [2]Point{c[0]}})
		for _, pt := range c[1:] {
			out = append(out, segment{op: 'L', pts: [2]Point{pt}})
		}
		return append(out, segment{op: 'Z'})
	}

	out = append(out, segment{op: 'M', pts: [2]Point{mid(c[n-1], c[0])}})
	for i := 0; i < n; i++ {
		prev, cur, nxt := c[(i+n-1)%n], c[i], c[(i+1)%n]
		end := mid(cur, nxt)
		if cornerAngle > 0 && turnAngle(prev, cur, nxt) > cornerAngle {
			out = append(out,
				segment{op: 'L', pts: [2]Point{cur}},
				segment{op: 'L', pts: [2]Point{end}},
			)
			continue
		}
		out = append(out, segment{op: 'Q', pts: [2]Point{cur, end}})
	}
	return append(out, segment{op: 'Z'})
}
