package tracing

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandkit/utils"
)

var (
	navy  = color.NRGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff}
	amber = color.NRGBA{R: 0xf2, G: 0xa5, B: 0x41, A: 0xff}
)

// ringLogo draws a navy square ring on white
func ringLogo() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(8, 8, 56, 56), image.NewUniform(navy), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(24, 24, 40, 40), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestOtsu(t *testing.T) {
	var h [256]int
	h[10] = 100
	h[200] = 300
	th := Otsu(h)
	assert.Greater(t, th, uint8(10))
	assert.LessOrEqual(t, th, uint8(200))

	var flat [256]int
	flat[42] = 10
	assert.Equal(t, uint8(128), Otsu(flat))
	assert.Equal(t, uint8(128), Otsu([256]int{}))
}

func TestThreshold_TransparentIsBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{A: 0xff})
	img.Set(2, 2, color.NRGBA{A: 0x10})

	bm := Threshold(img, Params{Threshold: 128})
	assert.True(t, bm.At(1, 1))
	assert.False(t, bm.At(2, 2))
	assert.Equal(t, 1, bm.Count())

	inv := Threshold(img, Params{Threshold: 128, Invert: true})
	assert.Equal(t, 0, inv.Count())
}

func TestVectorize_MonoUsesForegroundColor(t *testing.T) {
	v, err := Vectorize(ringLogo(), DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 64, v.Width)
	assert.Equal(t, 64, v.Height)
	require.Len(t, v.Paths, 1)
	assert.Equal(t, utils.Color{R: navy.R, G: navy.G, B: navy.B}, v.Paths[0].Fill)
	assert.Len(t, v.Paths[0].Contours, 2)
	assert.Equal(t, image.Rect(8, 8, 56, 56), v.Bounds())
}

func TestVectorize_Empty(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	_, err := Vectorize(img, DefaultParams())
	assert.ErrorIs(t, err, ErrEmptyBitmap)
}

func TestVectorize_MaxSizeDownscales(t *testing.T) {
	p := DefaultParams()
	p.MaxSize = 32
	v, err := Vectorize(ringLogo(), p)
	require.NoError(t, err)
	assert.Equal(t, 32, v.Width)
	assert.Equal(t, 32, v.Height)
}

func TestVectorize_ColorLayers(t *testing.T) {
	img := ringLogo()
	draw.Draw(img, image.Rect(28, 28, 36, 36), image.NewUniform(amber), image.Point{}, draw.Src)

	p := DefaultParams()
	p.Colors = 2
	p.Smooth = false
	v, err := Vectorize(img, p)
	require.NoError(t, err)

	require.Len(t, v.Paths, 2)
	want := []utils.Color{
		{R: navy.R, G: navy.G, B: navy.B},
		{R: amber.R, G: amber.G, B: amber.B},
	}
	if diff := cmp.Diff(want, v.Colors()); diff != "" {
		t.Errorf("layer colors mismatch (-want +got):\n%s", diff)
	}

	// the navy layer is stacked under the amber square and covers it
	raster := Rasterize(v, v.Width, v.Height)
	assert.Equal(t, amber, raster.NRGBAAt(32, 32))
	assert.Equal(t, navy, raster.NRGBAAt(10, 10))
	assert.Equal(t, uint8(0), raster.NRGBAAt(26, 26).A)
	assert.Equal(t, uint8(0), raster.NRGBAAt(2, 2).A)
}

func TestRasterize_RespectsHolesAndBackground(t *testing.T) {
	p := DefaultParams()
	p.Smooth = false
	v, err := Vectorize(ringLogo(), p)
	require.NoError(t, err)

	img := Rasterize(v, 64, 64)
	assert.Equal(t, navy, img.NRGBAAt(12, 12))
	assert.Equal(t, uint8(0), img.NRGBAAt(32, 32).A, "hole must stay transparent")
	assert.Equal(t, uint8(0), img.NRGBAAt(2, 2).A)

	bg := utils.White
	scaled := Rasterize(v.Fill(utils.Black).WithBackground(&bg), 128, 128)
	assert.Equal(t, color.NRGBA{A: 0xff}, scaled.NRGBAAt(24, 24))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, scaled.NRGBAAt(64, 64))
}

func TestSVG(t *testing.T) {
	p := DefaultParams()
	p.Smooth = false
	v, err := Vectorize(ringLogo(), p)
	require.NoError(t, err)

	bg := utils.Color{R: 0xff, G: 0xee, B: 0xdd}
	svg := string(v.WithBackground(&bg).SVG())
	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">`))
	assert.Contains(t, svg, `<rect width="64" height="64" fill="#ffeedd"/>`)
	assert.Contains(t, svg, `fill="#1f3a5f" fill-rule="evenodd"`)
	assert.Equal(t, 2, strings.Count(svg, "Z"))
	assert.NotContains(t, svg, "Q")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))

	smooth := v.Clone()
	smooth.Smooth = true
	smooth.CornerAngle = 0
	assert.Contains(t, string(smooth.SVG()), "Q")
}

func TestFormatNum(t *testing.T) {
	assert.Equal(t, "0", formatNum(0))
	assert.Equal(t, "12", formatNum(12))
	assert.Equal(t, "1.5", formatNum(1.5))
	assert.Equal(t, "3.33", formatNum(10.0/3))
	assert.Equal(t, "0", formatNum(-0.001))
}

func TestVector_RecolorDoesNotMutate(t *testing.T) {
	v, err := Vectorize(ringLogo(), DefaultParams())
	require.NoError(t, err)
	orig := v.Paths[0].Fill

	white := v.Fill(utils.White)
	assert.Equal(t, utils.White, white.Paths[0].Fill)
	assert.Equal(t, orig, v.Paths[0].Fill)

	inverted := v.Recolor(utils.Color.Invert)
	assert.Equal(t, orig.Invert(), inverted.Paths[0].Fill)
}

func TestVector_FrameAndSquare(t *testing.T) {
	p := DefaultParams()
	p.Smooth = false
	v, err := Vectorize(ringLogo(), p)
	require.NoError(t, err)

	sq := v.SquareFrame(0.125)
	assert.Equal(t, sq.Dx(), sq.Dy())
	assert.Equal(t, 60, sq.Dx())
	assert.Equal(t, image.Pt(2, 2), sq.Min)

	framed := v.Frame(sq)
	assert.Equal(t, 60, framed.Width)
	assert.Equal(t, image.Rect(6, 6, 54, 54), framed.Bounds())
}

func TestPlaceholder(t *testing.T) {
	palette := utils.DefaultPalette("acme")
	img := Placeholder("acme corp", palette, 128)
	require.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())

	assert.Equal(t, uint8(0), img.NRGBAAt(1, 1).A, "corners are outside the disk")
	edge := img.NRGBAAt(64, 10)
	assert.Equal(t, color.NRGBA{R: palette.Primary.R, G: palette.Primary.G, B: palette.Primary.B, A: 0xff}, edge)

	assert.Equal(t, "AC", Initials("acme corp"))
	assert.Equal(t, "?", Initials("  "))
	assert.Equal(t, "L", Initials("--- luna"))
}

func triangle() Contour {
	return Contour{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
}

func TestVectorValidate(t *testing.T) {
	ok := &Vector{Width: 4, Height: 4, Paths: []Path{{Contours: []Contour{triangle()}}}}
	require.NoError(t, ok.Validate(2048))

	tooMany := make([]Path, MaxPaths+1)
	for i := range tooMany {
		tooMany[i] = Path{Contours: []Contour{triangle()}}
	}

	tests := []struct {
		name string
		v    *Vector
	}{
		{"tall canvas", &Vector{Width: 1, Height: 100_000_000, Paths: ok.Paths}},
		{"zero width", &Vector{Width: 0, Height: 4, Paths: ok.Paths}},
		{"negative height", &Vector{Width: 4, Height: -1, Paths: ok.Paths}},
		{"point off canvas", &Vector{Width: 4, Height: 4, Paths: []Path{{Contours: []Contour{{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 1, Y: 1}}}}}}},
		{"negative point", &Vector{Width: 4, Height: 4, Paths: []Path{{Contours: []Contour{{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}}}}},
		{"NaN point", &Vector{Width: 4, Height: 4, Paths: []Path{{Contours: []Contour{{{X: math.NaN(), Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}}}}},
		{"infinite corner angle", &Vector{Width: 4, Height: 4, Paths: ok.Paths, CornerAngle: math.Inf(1)}},
		{"too many paths", &Vector{Width: 4, Height: 4, Paths: tooMany}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.v.Validate(2048), ErrInvalidVector)
		})
	}
}

func TestVectorValidate_TracedLogo(t *testing.T) {
	v, err := Vectorize(ringLogo(), DefaultParams())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(2048))
	assert.NoError(t, v.CheckCanvas(v.Width))
	assert.ErrorIs(t, v.CheckCanvas(v.Width-1), ErrInvalidVector)
}

func TestThreshold_AlphaBelowHalfIsBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{A: 200})
	img.SetNRGBA(2, 0, color.NRGBA{A: 100})
	img.SetNRGBA(3, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 100})
	img.SetNRGBA(4, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	src := Prepare(img, Params{})
	assert.Equal(t, uint8(100), src.NRGBAAt(2, 0).A, "alpha survives preparation")

	bm := Threshold(src, Params{Threshold: 128})
	assert.Equal(t, []bool{true, true, false, false, false}, row(bm))

	inv := Threshold(src, Params{Threshold: 128, Invert: true})
	assert.Equal(t, []bool{false, false, false, false, true}, row(inv))

	h := Histogram(src)
	total := 0
	for _, n := range h {
		total += n
	}
	assert.Equal(t, 3, total)
}

func row(bm *Bitmap) []bool {
	out := make([]bool, bm.W)
	for x := range out {
		out[x] = bm.At(x, 0)
	}
	return out
}
