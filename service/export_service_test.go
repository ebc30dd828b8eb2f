package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandkit/models"
	"brandkit/utils"
)

func testKit(t *testing.T) *models.BrandKit {
	return &models.BrandKit{
		ID:         "3f1c8a52-9d7e-4b61-a0f3-2c5d8e9b7a14",
		Name:       "Lunaria",
		Info:       lunaInfo,
		Statements: models.Statements{Mission: "Roast with care.", Vision: "Good cups.", Tagline: "Brewed by moonlight"},
		Palette:    utils.DefaultPalette("lunaria"),
		Logo:       ringVector(t),
		CreatedAt:  time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
	}
}

func readZip(t *testing.T, data []byte) ([]string, map[string][]byte) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names = append(names, f.Name)
		files[f.Name] = b
	}
	return names, files
}

func TestPackage_LayoutAndDeterminism(t *testing.T) {
	kit := testKit(t)
	variants := []models.LogoVariant{
		{Kind: models.VariantBlack, SVG: []byte("<svg/>"), PNG: []byte("png1"), Width: 10, Height: 10},
		{Kind: models.VariantIcon, SVG: []byte("<svg/>"), PNG: []byte("png2"), Width: 5, Height: 5},
	}

	data, err := Package(kit, variants, []byte("%PDF-1.4"))
	require.NoError(t, err)
	names, files := readZip(t, data)
	assert.Equal(t, []string{
		"logos/black.svg", "logos/black.png",
		"logos/icon.svg", "logos/icon.png",
		"palette.json", "brand.json", "guidelines.pdf", "README.txt",
	}, names)

	var palette map[string]any
	require.NoError(t, json.Unmarshal(files["palette.json"], &palette))
	assert.Equal(t, kit.Palette.Primary.Hex(), palette["primary"])
	assert.Len(t, palette["swatches"], 5)

	var brand brandDocument
	require.NoError(t, json.Unmarshal(files["brand.json"], &brand))
	assert.Equal(t, "Lunaria", brand.Name)
	assert.Equal(t, kit.Statements, brand.Statements)

	assert.Contains(t, string(files["README.txt"]), "icon.svg, icon.png")
	assert.Contains(t, string(files["README.txt"]), "guidelines.pdf")

	again, err := Package(kit, variants, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestPackage_WithoutPDF(t *testing.T) {
	data, err := Package(testKit(t), nil, nil)
	require.NoError(t, err)
	names, files := readZip(t, data)
	assert.Equal(t, []string{"palette.json", "brand.json", "README.txt"}, names)
	assert.NotContains(t, string(files["README.txt"]), "guidelines.pdf")

	_, err = Package(nil, nil, nil)
	assert.Error(t, err)
}

func TestExportService_Export(t *testing.T) {
	guidelines := &fakeGuidelines{pdf: []byte("%PDF")}
	svc := NewExportService(NewVariantService(testEngine(t), nil), guidelines)

	data, err := svc.Export(context.Background(), testKit(t), ExportOptions{
		Kinds:      []models.VariantKind{models.VariantTransparent},
		Guidelines: true,
	})
	require.NoError(t, err)
	names, _ := readZip(t, data)
	assert.Equal(t, []string{
		"logos/transparent.svg", "logos/transparent.png",
		"palette.json", "brand.json", "guidelines.pdf", "README.txt",
	}, names)
	assert.Equal(t, []models.VariantKind{models.VariantTransparent}, guidelines.kinds)
}

func TestExportService_PDFFailureIsSkipped(t *testing.T) {
	guidelines := &fakeGuidelines{err: errors.New("chrome not found")}
	svc := NewExportService(NewVariantService(testEngine(t), nil), guidelines)

	kit := testKit(t)
	kit.Logo = nil
	data, err := svc.Export(context.Background(), kit, ExportOptions{Guidelines: true})
	require.NoError(t, err)
	names, _ := readZip(t, data)
	assert.NotContains(t, names, "guidelines.pdf")
}
