package utils

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Color is an opaque sRGB color
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

var rgbRegex = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)

// ParseHex parses "#rrggbb", "rrggbb" or the short "#rgb" form
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ParseRGB parses the CSS "rgb(r, g, b)" notation
func ParseRGB(s string) (Color, error) {
	m := rgbRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Color{}, fmt.Errorf("invalid rgb color %q", s)
	}
	var c [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return Color{}, fmt.Errorf("invalid rgb component %q in %q", m[i+1], s)
		}
		c[i] = uint8(v)
	}
	return Color{R: c[0], G: c[1], B: c[2]}, nil
}

// ParseColor accepts hex, rgb() or a known color name
func ParseColor(s string) (Color, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(trimmed), "rgb") {
		return ParseRGB(trimmed)
	}
	if c, ok := MapColorNameToColor(trimmed); ok {
		return c, nil
	}
	return ParseHex(trimmed)
}

// Hex returns the lower-case #rrggbb form
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the CSS rgb() form
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA implements color.Color so a Color can be used directly with image/draw
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// Invert returns the RGB complement
func (c Color) Invert() Color {
	return Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// MarshalText encodes the color as hex so palettes serialize as strings
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts any form understood by ParseColor
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func linearize(v uint8) float64 {
	s := float64(v) / 255
	if s <= 0.03928 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// Luminance is the WCAG relative luminance in [0,1]
func (c Color) Luminance() float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

// ContrastRatio is the WCAG contrast ratio between two colors, in [1,21]
func ContrastRatio(a, b Color) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// TextOn picks black or white, whichever reads better on bg
func TextOn(bg Color) Color {
	if ContrastRatio(bg, Black) >= ContrastRatio(bg, White) {
		return Black
	}
	return White
}

// Palette is the brand color set
type Palette struct {
	Primary    Color `json:"primary"`
	Secondary  Color `json:"secondary"`
	Accent     Color `json:"accent"`
	Neutral    Color `json:"neutral"`
	Background Color `json:"background"`
}

// Swatch is a named palette entry, used for rendering
type Swatch struct {
	Name  string
	Color Color
	Text  Color
}

// Swatches lists the palette in display order
func (p Palette) Swatches() []Swatch {
	entries := []struct {
		name string
		c    Color
	}{
		{"Primary", p.Primary},
		{"Secondary", p.Secondary},
		{"Accent", p.Accent},
		{"Neutral", p.Neutral},
		{"Background", p.Background},
	}
	out := make([]Swatch, 0, len(entries))
	for _, e := range entries {
		out = append(out, Swatch{Name: e.name, Color: e.c, Text: TextOn(e.c)})
	}
	return out
}

var defaultPalettes = []Palette{
	{Primary: Color{0x1f, 0x3a, 0x5f}, Secondary: Color{0x3d, 0x8b, 0xb5}, Accent: Color{0xf2, 0xa5, 0x41}, Neutral: Color{0x4a, 0x4a, 0x4a}, Background: Color{0xf7, 0xf9, 0xfb}},
	{Primary: Color{0x2d, 0x6a, 0x4f}, Secondary: Color{0x95, 0xd5, 0xb2}, Accent: Color{0xe7, 0x6f, 0x51}, Neutral: Color{0x33, 0x33, 0x33}, Background: Color{0xfa, 0xf7, 0xf0}},
	{Primary: Color{0x5b, 0x2a, 0x86}, Secondary: Color{0x9d, 0x79, 0xbc}, Accent: Color{0xf4, 0xd3, 0x5e}, Neutral: Color{0x2b, 0x2b, 0x2b}, Background: Color{0xff, 0xff, 0xff}},
	{Primary: Color{0xc0, 0x39, 0x2b}, Secondary: Color{0x2c, 0x3e, 0x50}, Accent: Color{0xf1, 0xc4, 0x0f}, Neutral: Color{0x7f, 0x8c, 0x8d}, Background: Color{0xfd, 0xfe, 0xfe}},
	{Primary: Color{0x11, 0x11, 0x11}, Secondary: Color{0x55, 0x55, 0x55}, Accent: Color{0xff, 0x5a, 0x36}, Neutral: Color{0x99, 0x99, 0x99}, Background: Color{0xf5, 0xf5, 0xf5}},
}

// DefaultPalettes returns a copy of the static fallback palettes
func DefaultPalettes() []Palette {
	out := make([]Palette, len(defaultPalettes))
	copy(out, defaultPalettes)
	return out
}

// DefaultPalette picks a fallback palette deterministically from seed
func DefaultPalette(seed string) Palette {
	var h uint32 = 2166136261
	for _, b := range []byte(strings.ToLower(strings.TrimSpace(seed))) {
		h ^= uint32(b)
		h *= 16777619
	}
	return defaultPalettes[h%uint32(len(defaultPalettes))]
}

// ExtractJSONObject returns the first balanced {...} block in text.
// Model output often wraps JSON in code fences or prose.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object")
}

// ParsePaletteJSON reads a palette out of free-form model output.
// Every field must be present and parse as a color.
func ParsePaletteJSON(text string) (Palette, error) {
	obj, err := ExtractJSONObject(text)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to find palette: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Palette{}, fmt.Errorf("failed to decode palette: %w", err)
	}

	lookup := make(map[string]string, len(raw))
	for k, v := range raw {
		lookup[strings.ToLower(k)] = v
	}

	var p Palette
	fields := []struct {
		key string
		dst *Color
	}{
		{"primary", &p.Primary},
		{"secondary", &p.Secondary},
		{"accent", &p.Accent},
		{"neutral", &p.Neutral},
		{"background", &p.Background},
	}
	for _, f := range fields {
		v, ok := lookup[f.key]
		if !ok {
			return Palette{}, fmt.Errorf("palette is missing %q", f.key)
		}
		c, err := ParseColor(v)
		if err != nil {
			return Palette{}, fmt.Errorf("palette field %q: %w", f.key, err)
		}
		*f.dst = c
	}
	return p, nil
}

// DominantColors clusters the opaque pixels of img into at most k colors
// with k-means. Results are sorted by cluster size, largest first.
// Seeding is deterministic, so the same image always gives the same colors.
func DominantColors(img image.Image, k int) []Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	step := 1
	if n := b.Dx() * b.Dy(); n > 40000 {
		step = int(math.Sqrt(float64(n) / 40000))
	}

	var samples [][3]float64
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			samples = append(samples, [3]float64{float64(r >> 8), float64(g >> 8), float64(bl >> 8)})
		}
	}
	if len(samples) == 0 {
		return nil
	}

	sorted := make([][3]float64, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return luma(sorted[i]) < luma(sorted[j])
	})

	// maximin seeding from the median-luma sample
	centers := [][3]float64{sorted[len(sorted)/2]}
	minDist := make([]float64, len(sorted))
	for i := range minDist {
		minDist[i] = math.MaxFloat64
	}
	for len(centers) < k {
		last := centers[len(centers)-1]
		far, farDist := -1, 0.0
		for i, s := range sorted {
			if d := sqDist(s, last); d < minDist[i] {
				minDist[i] = d
			}
			if minDist[i] > farDist {
				far, farDist = i, minDist[i]
			}
		}
		if far < 0 {
			break
		}
		centers = append(centers, sorted[far])
	}
	k = len(centers)

	assign := make([]int, len(samples))
	for iter := 0; iter < 20; iter++ {
		changed := false
		for i, s := range samples {
			if best := nearest(centers, s); best != assign[i] {
				assign[i] = best
				changed = true
			}
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, s := range samples {
			c := assign[i]
			sums[c][0] += s[0]
			sums[c][1] += s[1]
			sums[c][2] += s[2]
			counts[c]++
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			n := float64(counts[c])
			centers[c] = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}
		if !changed && iter > 0 {
			break
		}
	}

	counts := make([]int, k)
	for _, c := range assign {
		counts[c]++
	}
	order := make([]int, 0, k)
	for c := range centers {
		if counts[c] > 0 {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	out := make([]Color, 0, len(order))
	seen := make(map[Color]bool)
	for _, c := range order {
		col := Color{R: clamp8(centers[c][0]), G: clamp8(centers[c][1]), B: clamp8(centers[c][2])}
		if seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}

// Nearest returns the index of the palette entry closest to c
func Nearest(palette []Color, c Color) int {
	centers := make([][3]float64, len(palette))
	for i, p := range palette {
		centers[i] = [3]float64{float64(p.R), float64(p.G), float64(p.B)}
	}
	return nearest(centers, [3]float64{float64(c.R), float64(c.G), float64(c.B)})
}

func sqDist(a, b [3]float64) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dr*dr + dg*dg + db*db
}

func nearest(centers [][3]float64, s [3]float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range centers {
		if d := sqDist(c, s); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func luma(s [3]float64) float64 {
	return 0.299*s[0] + 0.587*s[1] + 0.114*s[2]
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
