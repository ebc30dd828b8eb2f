package tracing

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// formatNum prints at most two decimals and no trailing zeros
func formatNum(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c Contour) pathData(smooth bool, cornerAngle float64, buf *bytes.Buffer) {
	for _, s := range c.segments(smooth, cornerAngle) {
		switch s.op {
		case 'M', 'L':
			fmt.Fprintf(buf, "%c%s %s", s.op, formatNum(s.pts[0].X), formatNum(s.pts[0].Y))
		case 'Q':
			fmt.Fprintf(buf, "Q%s %s %s %s",
				formatNum(s.pts[0].X), formatNum(s.pts[0].Y),
				formatNum(s.pts[1].X), formatNum(s.pts[1].Y))
		case 'Z':
			buf.WriteByte('Z')
		}
	}
}

// PathData returns the SVG "d" attribute for one path
func (v *Vector) PathData(p Path) string {
	var buf bytes.Buffer
	for _, c := range p.Contours {
		c.pathData(v.Smooth, v.CornerAngle, &buf)
	}
	return buf.String()
}

// SVG serializes the vector as a standalone SVG document
func (v *Vector) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		v.Width, v.Height, v.Width, v.Height)
	buf.WriteByte('\n')
	if v.Background != nil {
		fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="%s"/>`, v.Width, v.Height, v.Background.Hex())
		buf.WriteByte('\n')
	}
	for _, p := range v.Paths {
		if len(p.Contours) == 0 {
			continue
		}
		fmt.Fprintf(&buf, `<path fill="%s" fill-rule="evenodd" d="%s"/>`, p.Fill.Hex(), v.PathData(p))
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
