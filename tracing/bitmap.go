package tracing

import "image"

// Bitmap is a binary foreground mask. Pixels outside the bitmap are background.
type Bitmap struct {
	W, H int
	bits []bool
}

// NewBitmap creates an empty w x h bitmap
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports whether (x, y) is foreground
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.bits[y*b.W+x]
}

// Set marks (x, y); out of range coordinates are ignored
func (b *Bitmap) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.bits[y*b.W+x] = v
}

// Count returns the number of foreground pixels
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.bits {
		if v {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the foreground pixels
func (b *Bitmap) Bounds() image.Rectangle {
	minX, minY, maxX, maxY := b.W, b.H, -1, -1
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if !b.bits[y*b.W+x] {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Union sets every pixel that is foreground in o. Both bitmaps must share a size.
func (b *Bitmap) Union(o *Bitmap) {
	if o.W != b.W || o.H != b.H {
		return
	}
	for i, v := range o.bits {
		if v {
			b.bits[i] = true
		}
	}
}
