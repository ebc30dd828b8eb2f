package utils

import (
	"strings"
)

// colorNames maps the CSS names models most often answer with.
// Input is normalized to lowercase before mapping
var colorNames = map[string]Color{
	"black":      {0x00, 0x00, 0x00},
	"white":      {0xff, 0xff, 0xff},
	"gray":       {0x80, 0x80, 0x80},
	"grey":       {0x80, 0x80, 0x80},
	"silver":     {0xc0, 0xc0, 0xc0},
	"red":        {0xff, 0x00, 0x00},
	"maroon":     {0x80, 0x00, 0x00},
	"crimson":    {0xdc, 0x14, 0x3c},
	"orange":     {0xff, 0xa5, 0x00},
	"coral":      {0xff, 0x7f, 0x50},
	"gold":       {0xff, 0xd7, 0x00},
	"yellow":     {0xff, 0xff, 0x00},
	"olive":      {0x80, 0x80, 0x00},
	"lime":       {0x00, 0xff, 0x00},
	"green":      {0x00, 0x80, 0x00},
	"teal":       {0x00, 0x80, 0x80},
	"cyan":       {0x00, 0xff, 0xff},
	"turquoise":  {0x40, 0xe0, 0xd0},
	"blue":       {0x00, 0x00, 0xff},
	"navy":       {0x00, 0x00, 0x80},
	"royalblue":  {0x41, 0x69, 0xe1},
	"skyblue":    {0x87, 0xce, 0xeb},
	"purple":     {0x80, 0x00, 0x80},
	"indigo":     {0x4b, 0x00, 0x82},
	"violet":     {0xee, 0x82, 0xee},
	"magenta":    {0xff, 0x00, 0xff},
	"pink":       {0xff, 0xc0, 0xcb},
	"brown":      {0xa5, 0x2a, 0x2a},
	"beige":      {0xf5, 0xf5, 0xdc},
	"ivory":      {0xff, 0xff, 0xf0},
	"charcoal":   {0x36, 0x45, 0x4f},
	"slategray":  {0x70, 0x80, 0x90},
	"whitesmoke": {0xf5, 0xf5, 0xf5},
}

// MapColorNameToColor maps a color name to its sRGB value.
// Spaces, dashes and case are ignored ("Royal Blue" == "royalblue").
func MapColorNameToColor(name string) (Color, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	c, ok := colorNames[key]
	return c, ok
}
