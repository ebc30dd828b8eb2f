package tracing

import "errors"

// ErrEmptyBitmap is returned when thresholding leaves nothing to trace
var ErrEmptyBitmap = errors.New("nothing to trace: bitmap has no foreground pixels")

// ErrInvalidVector is returned for vectors that cannot be rendered safely
var ErrInvalidVector = errors.New("invalid vector")

// Params controls the raster to vector conversion
type Params struct {
	// Threshold is the luminance cut between foreground and background.
	// 0 selects it automatically with Otsu's method.
	Threshold uint8 `yaml:"threshold" json:"threshold"`
	// Invert traces light shapes on a dark background
	Invert bool `yaml:"invert" json:"invert"`
	// TurdSize drops loops enclosing fewer pixels than this
	TurdSize int `yaml:"turd_size" json:"turdSize"`
	// Tolerance is the maximum distance in pixels a simplified edge may stray
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	// Smooth emits quadratic curves instead of straight segments
	Smooth bool `yaml:"smooth" json:"smooth"`
	// CornerAngle in degrees: turns sharper than this stay corners when smoothing
	CornerAngle float64 `yaml:"corner_angle" json:"cornerAngle"`
	// MaxSize bounds the longer side of the working raster
	MaxSize int `yaml:"max_size" json:"maxSize"`
	// Blur is the Gaussian sigma applied before thresholding
	Blur float64 `yaml:"blur" json:"blur"`
	// Colors > 1 traces one layer per dominant color
	Colors int `yaml:"colors" json:"colors"`
}

// DefaultParams returns the settings used when nothing is configured
func DefaultParams() Params {
	return Params{
		Threshold:   0,
		TurdSize:    4,
		Tolerance:   0.8,
		Smooth:      true,
		CornerAngle: 60,
		MaxSize:     1024,
		Colors:      1,
	}
}
