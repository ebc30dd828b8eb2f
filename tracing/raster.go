package tracing

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// Rasterize paints v into a new w x h image, scaling the vector canvas to fit
// exactly. Without a background the result is transparent outside the paths.
//
// Contours of one path go through a single rasterizer pass. Outer loops and
// holes wind in opposite directions, so the accumulated coverage cancels
// inside holes the same way the SVG even-odd rule does.
func Rasterize(v *Vector, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return dst
	}
	if v.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(*v.Background), image.Point{}, draw.Src)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return dst
	}

	sx := float32(w) / float32(v.Width)
	sy := float32(h) / float32(v.Height)
	for _, p := range v.Paths {
		if len(p.Contours) == 0 {
			continue
		}
		r := vector.NewRasterizer(w, h)
		r.DrawOp = draw.Over
		for _, c := range p.Contours {
			for _, s := range c.segments(v.Smooth, v.CornerAngle) {
				switch s.op {
				case 'M':
					r.MoveTo(float32(s.pts[0].X)*sx, float32(s.pts[0].Y)*sy)
				case 'L':
					r.LineTo(float32(s.pts[0].X)*sx, float32(s.pts[0].Y)*sy)
				case 'Q':
					r.QuadTo(
						float32(s.pts[0].X)*sx, float32(s.pts[0].Y)*sy,
						float32(s.pts[1].X)*sx, float32(s.pts[1].Y)*sy,
					)
				case 'Z':
					r.ClosePath()
				}
			}
		}
		fill := color.NRGBA{R: p.Fill.R, G: p.Fill.G, B: p.Fill.B, A: 0xff}
		r.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{})
	}
	return dst
}
