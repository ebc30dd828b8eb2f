package models

import "fmt"

// VariantKind names one deliverable rendition of the logo
type VariantKind string

const (
	VariantOriginal    VariantKind = "original"
	VariantBlack       VariantKind = "black"
	VariantWhite       VariantKind = "white"
	VariantTransparent VariantKind = "transparent"
	VariantNegative    VariantKind = "negative"
	VariantIcon        VariantKind = "icon"
)

// AllVariants lists every kind in packaging order
func AllVariants() []VariantKind {
	return []VariantKind{
		VariantOriginal,
		VariantBlack,
		VariantWhite,
		VariantTransparent,
		VariantNegative,
		VariantIcon,
	}
}

// ParseVariantKind validates a kind name
func ParseVariantKind(s string) (VariantKind, error) {
	for _, k := range AllVariants() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown logo variant %q", s)
}

// LogoVariant is one rendered variant
type LogoVariant struct {
	Kind   VariantKind `json:"kind"`
	SVG    []byte      `json:"-"`
	PNG    []byte      `json:"-"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}
