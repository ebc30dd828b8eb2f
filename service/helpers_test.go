package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"brandkit/models"
	"brandkit/profile"
)

var navy = color.NRGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff}

// ringPNG is a navy square ring on white
func ringPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(8, 8, 56, 56), image.NewUniform(navy), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(24, 24, 40, 40), image.NewUniform(color.White), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testEngine(t *testing.T) *profile.Engine {
	t.Helper()
	p := profile.DefaultProfile()
	p.PNGWidth = 128
	p.IconSize = 64
	e, err := profile.FromProfile(p)
	require.NoError(t, err)
	return e
}

type fakeText struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeText) GenerateText(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i], nil
}

type fakeImage struct {
	name  string
	data  []byte
	err   error
	calls int
}

func (f *fakeImage) Name() string { return f.name }

func (f *fakeImage) GenerateImage(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type fakeGuidelines struct {
	pdf   []byte
	err   error
	html  string
	kinds []models.VariantKind
}

func (f *fakeGuidelines) RenderHTML(kit *models.BrandKit, variants []models.LogoVariant) (string, error) {
	f.kinds = nil
	for _, v := range variants {
		f.kinds = append(f.kinds, v.Kind)
	}
	f.html = "<html>" + kit.Name + "</html>"
	return f.html, nil
}

func (f *fakeGuidelines) GeneratePDF(context.Context, string) ([]byte, error) {
	return f.pdf, f.err
}

type fakeDrive struct {
	files    map[string][]byte
	uploaded map[string][]byte
	folder   string
}

func (f *fakeDrive) ListImages(_ context.Context, folderID string) ([]models.DriveFile, error) {
	f.folder = folderID
	var out []models.DriveFile
	for id := range f.files {
		out = append(out, models.DriveFile{ID: id, Name: id + ".png", MimeType: "image/png"})
	}
	return out, nil
}

func (f *fakeDrive) DownloadImage(_ context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errNotInDrive
	}
	return data, nil
}

func (f *fakeDrive) UploadFile(_ context.Context, folderID, name, _ string, data []byte) (string, error) {
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.folder = folderID
	f.uploaded[name] = data
	return "drive-" + name, nil
}

var errNotInDrive = errors.New("file not found")
