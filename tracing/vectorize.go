package tracing

import (
	"fmt"
	"image"
	"sort"

	"brandkit/utils"
)

// Vectorize traces img into a Vector.
//
// With Colors <= 1 it thresholds the image into a single mask filled with the
// average color of the foreground pixels. With Colors > 1 it quantizes the
// image into that many dominant colors plus the background and traces one
// stacked layer per color.
func Vectorize(img image.Image, p Params) (*Vector, error) {
	src := Prepare(img, p)
	b := src.Bounds()
	v := &Vector{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Smooth:      p.Smooth,
		CornerAngle: p.CornerAngle,
	}

	if p.Colors <= 1 {
		bm := Threshold(src, p)
		contours, err := Trace(bm, p)
		if err != nil {
			return nil, err
		}
		v.Paths = []Path{{Contours: contours, Fill: averageColor(src, bm)}}
		return v, nil
	}

	layers, err := colorLayers(src, p)
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		contours, err := Trace(l.mask, p)
		if err == ErrEmptyBitmap {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to trace layer %s: %w", l.color.Hex(), err)
		}
		v.Paths = append(v.Paths, Path{Contours: contours, Fill: l.color})
	}
	if len(v.Paths) == 0 {
		return nil, ErrEmptyBitmap
	}
	return v, nil
}

type layer struct {
	color utils.Color
	mask  *Bitmap
	count int
}

// colorLayers labels every opaque pixel with its nearest dominant color and
// builds one mask per color except the background. Layers are ordered by
// size, largest first, and each mask also covers every later layer so the
// stacked fills leave no gaps along shared edges.
func colorLayers(src *image.NRGBA, p Params) ([]layer, error) {
	palette := utils.DominantColors(src, p.Colors+1)
	if len(palette) == 0 {
		return nil, ErrEmptyBitmap
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	labels := make([]int, w*h)
	counts := make([]int, len(palette))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := src.Pix[i : i+4 : i+4]
			if !opaque(px[3]) {
				labels[y*w+x] = -1
				continue
			}
			l := utils.Nearest(palette, utils.Color{R: px[0], G: px[1], B: px[2]})
			labels[y*w+x] = l
			counts[l]++
		}
	}

	bg := backgroundLabel(labels, w, h, len(palette))

	var layers []layer
	for i, c := range palette {
		if i == bg || counts[i] == 0 {
			continue
		}
		mask := NewBitmap(w, h)
		for j, l := range labels {
			if l == i {
				mask.bits[j] = true
			}
		}
		layers = append(layers, layer{color: c, mask: mask, count: counts[i]})
	}
	if len(layers) == 0 {
		return nil, ErrEmptyBitmap
	}

	sort.SliceStable(layers, func(i, j int) bool { return layers[i].count > layers[j].count })
	for i := len(layers) - 2; i >= 0; i-- {
		layers[i].mask.Union(layers[i+1].mask)
	}
	return layers, nil
}

// backgroundLabel is the label that dominates the image border, or -1 when
// the border is mostly transparent
func backgroundLabel(labels []int, w, h, n int) int {
	votes := make([]int, n)
	transparent := 0
	vote := func(x, y int) {
		l := labels[y*w+x]
		if l < 0 {
			transparent++
			return
		}
		votes[l]++
	}
	for x := 0; x < w; x++ {
		vote(x, 0)
		if h > 1 {
			vote(x, h-1)
		}
	}
	for y := 1; y < h-1; y++ {
		vote(0, y)
		if w > 1 {
			vote(w-1, y)
		}
	}

	best, bestVotes := -1, transparent
	for i, v := range votes {
		if v > bestVotes {
			best, bestVotes = i, v
		}
	}
	return best
}

func averageColor(src *image.NRGBA, bm *Bitmap) utils.Color {
	var r, g, bl, n uint64
	b := src.Bounds()
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			if !bm.At(x, y) {
				continue
			}
			i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			r += uint64(src.Pix[i])
			g += uint64(src.Pix[i+1])
			bl += uint64(src.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return utils.Black
	}
	return utils.Color{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n)}
}
