package models

import (
	"fmt"
	"strings"
	"time"

	"brandkit/tracing"
	"brandkit/utils"
)

// BrandInfo is the business information the brand is generated from
type BrandInfo struct {
	BusinessName string   `json:"businessName"`
	Industry     string   `json:"industry"`
	Description  string   `json:"description"`
	Audience     string   `json:"audience"`
	Values       []string `json:"values,omitempty"`
	Style        string   `json:"style,omitempty"`
}

// Validate checks the fields every prompt relies on
func (b BrandInfo) Validate() error {
	if strings.TrimSpace(b.BusinessName) == "" && strings.TrimSpace(b.Description) == "" {
		return fmt.Errorf("businessName or description is required")
	}
	return nil
}

// Statements holds the generated brand copy
type Statements struct {
	Mission string   `json:"mission"`
	Vision  string   `json:"vision"`
	Tagline string   `json:"tagline,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// BrandKit is a persisted, exportable brand
type BrandKit struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Info       BrandInfo       `json:"info"`
	Statements Statements      `json:"statements"`
	Palette    utils.Palette   `json:"palette"`
	Logo       *tracing.Vector `json:"logo,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BrandKitSummary is the list view of a kit
type BrandKitSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HasLogo   bool      `json:"hasLogo"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBrandKitRequest is the body of POST /api/kits
type CreateBrandKitRequest struct {
	Name       string          `json:"name"`
	Info       BrandInfo       `json:"info"`
	Statements Statements      `json:"statements"`
	Palette    *utils.Palette  `json:"palette,omitempty"`
	Logo       *tracing.Vector `json:"logo,omitempty"`
}

// BrandRequest is the body shared by the generation endpoints
type BrandRequest struct {
	Info    BrandInfo      `json:"info"`
	Name    string         `json:"name,omitempty"`
	Count   int            `json:"count,omitempty"`
	Palette *utils.Palette `json:"palette,omitempty"`
}
