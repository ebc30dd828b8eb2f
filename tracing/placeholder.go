package tracing

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"brandkit/utils"
)

// kappa places cubic control points so four arcs approximate a circle
const kappa = 0.5522847498

// Initials returns up to two upper-case initials of name, "?" when empty
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Placeholder renders the fallback logo: the brand initials on a disk of the
// primary color. Used when no image provider produced a logo.
func Placeholder(name string, palette utils.Palette, size int) *image.NRGBA {
	if size <= 0 {
		size = 512
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	s := float32(size)
	c, r := s/2, s*0.46
	k := r * kappa
	z := vector.NewRasterizer(size, size)
	z.MoveTo(c+r, c)
	z.CubeTo(c+r, c+k, c+k, c+r, c, c+r)
	z.CubeTo(c-k, c+r, c-r, c+k, c-r, c)
	z.CubeTo(c-r, c-k, c-k, c-r, c, c-r)
	z.CubeTo(c+k, c-r, c+r, c-k, c+r, c)
	z.ClosePath()
	disk := color.NRGBA{R: palette.Primary.R, G: palette.Primary.G, B: palette.Primary.B, A: 0xff}
	z.Draw(dst, dst.Bounds(), image.NewUniform(disk), image.Point{})

	text := Initials(name)
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	tw := d.MeasureString(text).Ceil()
	th := face.Metrics().Height.Ceil()
	glyphs := image.NewNRGBA(image.Rect(0, 0, tw+2, th+2))
	d.Dst = glyphs
	d.Src = image.NewUniform(utils.TextOn(palette.Primary))
	d.Dot = fixed.P(1, 1+face.Metrics().Ascent.Ceil())
	d.DrawString(text)

	// scale the bitmap glyphs so the initials span about half the disk
	targetW := size / 2
	targetH := targetW * glyphs.Bounds().Dy() / glyphs.Bounds().Dx()
	if maxH := size * 2 / 5; targetH > maxH {
		targetH = maxH
		targetW = targetH * glyphs.Bounds().Dx() / glyphs.Bounds().Dy()
	}
	scaled := imaging.Resize(glyphs, targetW, targetH, imaging.Lanczos)
	offset := image.Pt((size-targetW)/2, (size-targetH)/2)
	draw.Draw(dst, scaled.Bounds().Add(offset), scaled, image.Point{}, draw.Over)
	return dst
}
