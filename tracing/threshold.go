package tracing

import (
	"image"

	"github.com/disintegration/imaging"
)

// Prepare puts the source image into the working raster: NRGBA, at most
// MaxSize on its longer side, optionally blurred to suppress noise.
// Alpha is kept so transparent areas stay background.
func Prepare(img image.Image, p Params) *image.NRGBA {
	b := img.Bounds()
	var out *image.NRGBA
	if p.MaxSize > 0 && (b.Dx() > p.MaxSize || b.Dy() > p.MaxSize) {
		out = imaging.Fit(img, p.MaxSize, p.MaxSize, imaging.Lanczos)
	} else {
		out = imaging.Clone(img)
	}
	if p.Blur > 0 {
		out = imaging.Blur(out, p.Blur)
	}
	return out
}

// luminance of an NRGBA pixel composited over white, 0..255
func luminance(r, g, b, a uint8) uint8 {
	l := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	af := float64(a) / 255
	v := l*af + 255*(1-af)
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// opaque reports whether a pixel can be ink; alpha below half is always
// background, in either threshold mode
func opaque(a uint8) bool {
	return a >= 128
}

// Histogram counts the luminance of the opaque pixels
func Histogram(img *image.NRGBA) [256]int {
	var h [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			if !opaque(px[3]) {
				continue
			}
			h[luminance(px[0], px[1], px[2], px[3])]++
		}
	}
	return h
}

// Otsu returns the threshold that maximizes between-class variance.
// Pixels with luminance below the result form the dark class.
// A single-valued histogram yields the midpoint 128.
func Otsu(hist [256]int) uint8 {
	var total, sum float64
	for i, n := range hist {
		total += float64(n)
		sum += float64(i) * float64(n)
	}
	if total == 0 {
		return 128
	}

	var sumB, wB, maxVar float64
	best := -1
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		v := wB * wF * (mB - mF) * (mB - mF)
		if v > maxVar {
			maxVar = v
			best = t
		}
	}
	if best < 0 {
		return 128
	}
	return uint8(best + 1)
}

// Threshold converts the working raster to a foreground mask
func Threshold(img *image.NRGBA, p Params) *Bitmap {
	t := p.Threshold
	if t == 0 {
		t = Otsu(Histogram(img))
	}

	b := img.Bounds()
	bm := NewBitmap(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			if !opaque(px[3]) {
				continue
			}
			l := luminance(px[0], px[1], px[2], px[3])
			fg := l < t
			if p.Invert {
				fg = l >= t
			}
			if fg {
				bm.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return bm
}
