package tracing

import (
	"math"
)

// Point is a position in raster coordinates (y grows downward)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is a closed polygon; the last point connects back to the first
type Contour []Point

// Area is the signed shoelace area in raster coordinates.
// Outer boundaries are positive, holes negative.
func (c Contour) Area() float64 {
	var s float64
	for i := range c {
		j := (i + 1) % len(c)
		s += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return s / 2
}

// edge directions around a pixel corner
const (
	dirE = iota
	dirS
	dirW
	dirN
)

func turnRight(d int) int { return (d + 1) % 4 }
func turnLeft(d int) int  { return (d + 3) % 4 }

// Trace follows the pixel boundaries of bm and returns closed loops.
//
// Every foreground pixel contributes its sides that face background, oriented
// clockwise on screen, so a loop encloses foreground on its right. Where two
// loops meet at a corner (diagonal pixels) the walk always turns right, which
// keeps diagonal neighbours in separate loops. Loops smaller than TurdSize
// pixels are dropped, and each loop is simplified with Tolerance.
func Trace(bm *Bitmap, p Params) ([]Contour, error) {
	if bm.Count() == 0 {
		return nil, ErrEmptyBitmap
	}

	loops := traceLoops(bm)
	contours := make([]Contour, 0, len(loops))
	for _, loop := range loops {
		if math.Abs(loop.Area()) < float64(p.TurdSize) {
			continue
		}
		contours = append(contours, Simplify(loop, p.Tolerance))
	}
	if len(contours) == 0 {
		return nil, ErrEmptyBitmap
	}
	return contours, nil
}

func traceLoops(bm *Bitmap) []Contour {
	stride := bm.W + 1
	mask := make([]uint8, stride*(bm.H+1))
	idx := func(x, y int) int { return y*stride + x }

	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			if !bm.At(x, y) {
				continue
			}
			if !bm.At(x, y-1) {
				mask[idx(x, y)] |= 1 << dirE
			}
			if !bm.At(x+1, y) {
				mask[idx(x+1, y)] |= 1 << dirS
			}
			if !bm.At(x, y+1) {
				mask[idx(x+1, y+1)] |= 1 << dirW
			}
			if !bm.At(x-1, y) {
				mask[idx(x, y+1)] |= 1 << dirN
			}
		}
	}

	step := [4]int{1, stride, -1, -stride}
	next := func(v, d int) int {
		for _, c := range [3]int{turnRight(d), d, turnLeft(d)} {
			if mask[v]&(1<<c) != 0 {
				return c
			}
		}
		return -1
	}
	point := func(v int) Point {
		return Point{X: float64(v % stride), Y: float64(v / stride)}
	}

	used := make([]uint8, len(mask))
	var loops []Contour
	for start := range mask {
		for free := mask[start] &^ used[start]; free != 0; free = mask[start] &^ used[start] {
			startDir := lowestBit(free)
			var loop Contour
			v, d := start, startDir
			for {
				used[v] |= 1 << d
				nv := v + step[d]
				nd := next(nv, d)
				if nd < 0 {
					// unreachable for a well-formed edge set
					break
				}
				if nd != d {
					loop = append(loop, point(nv))
				}
				if nv == start && nd == startDir {
					break
				}
				v, d = nv, nd
			}
			if len(loop) >= 3 {
				loops = append(loops, loop)
			}
		}
	}
	return loops
}

func lowestBit(m uint8) int {
	for i := 0; i < 4; i++ {
		if m&(1<<i) != 0 {
			return i
		}
	}
	return -1
}

// Simplify removes collinear points and then applies Ramer-Douglas-Peucker
// with the given tolerance. The result always keeps at least 3 points.
func Simplify(c Contour, tolerance float64) Contour {
	c = dropCollinear(c)
	if tolerance <= 0 || len(c) <= 4 {
		return c
	}

	// split the closed loop at the point farthest from c[0]
	far, farDist := 0, -1.0
	for i, pt := range c {
		if d := dist2(pt, c[0]); d > farDist {
			far, farDist = i, d
		}
	}
	first := rdp(c[:far+1], tolerance)
	second := rdp(append(append(Contour{}, c[far:]...), c[0]), tolerance)

	out := make(Contour, 0, len(first)+len(second))
	out = append(out, first...)
	out = append(out, second[1:len(second)-1]...)
	if len(out) < 3 {
		return c
	}
	return out
}

func dropCollinear(c Contour) Contour {
	if len(c) < 3 {
		return c
	}
	out := make(Contour, 0, len(c))
	n := len(c)
	for i := 0; i < n; i++ {
		prev := c[(i+n-1)%n]
		cur := c[i]
		nxt := c[(i+1)%n]
		cross := (cur.X-prev.X)*(nxt.Y-cur.Y) - (cur.Y-prev.Y)*(nxt.X-cur.X)
		if math.Abs(cross) < 1e-9 {
			continue
		}
		out = append(out, cur)
	}
	if len(out) < 3 {
		return c
	}
	return out
}

func rdp(pts Contour, tolerance float64) Contour {
	if len(pts) < 3 {
		return append(Contour{}, pts...)
	}
	a, b := pts[0], pts[len(pts)-1]
	idx, maxD := 0, 0.0
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], a, b); d > maxD {
			idx, maxD = i, d
		}
	}
	if maxD <= tolerance {
		return Contour{a, b}
	}
	left := rdp(pts[:idx+1], tolerance)
	right := rdp(pts[idx:], tolerance)
	return append(left[:len(left)-1], right...)
}

func dist2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Sqrt(dist2(p, a))
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	proj := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return math.Sqrt(dist2(p, proj))
}
