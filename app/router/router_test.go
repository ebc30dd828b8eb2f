package router

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandkit/app/controller"
	"brandkit/models"
	"brandkit/profile"
	"brandkit/repository"
	"brandkit/service"
	"brandkit/utils"
)

type cannedText struct{ reply string }

func (c cannedText) GenerateText(context.Context, string, string) (string, error) {
	return c.reply, nil
}

type failingGuidelines struct{}

func (failingGuidelines) RenderHTML(*models.BrandKit, []models.LogoVariant) (string, error) {
	return "<html></html>", nil
}

func (failingGuidelines) GeneratePDF(context.Context, string) ([]byte, error) {
	return nil, assert.AnError
}

func newTestServer(t *testing.T, text service.TextModel) *httptest.Server {
	t.Helper()
	p := profile.DefaultProfile()
	p.PNGWidth = 96
	p.IconSize = 48
	engine, err := profile.FromProfile(p)
	require.NoError(t, err)

	generator := service.NewBrandGenerator(text, nil, service.NewResponseCache(time.Minute),
		service.RetryPolicy{Attempts: 1, Base: time.Millisecond, Max: time.Millisecond})
	variants := service.NewVariantService(engine, nil)
	export := service.NewExportService(variants, failingGuidelines{})
	kits := service.NewKitService(repository.NewMemoryBrandKitRepository(), export, nil, "")

	handler := SetupRoutes(http.NewServeMux(), &Controllers{
		Brand: controller.NewBrandController(generator),
		Logo:  controller.NewLogoController(engine, variants),
		Kit:   controller.NewKitController(kits, engine),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func logoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 48, 48))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(8, 8, 40, 40), image.NewUniform(color.NRGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartImage(t *testing.T, data []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

var info = models.BrandInfo{BusinessName: "Luna", Industry: "coffee"}

func TestPing(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/ping", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestBrandRoutes(t *testing.T) {
	srv := newTestServer(t, cannedText{reply: `{"primary":"#112233","secondary":"#445566","accent":"#778899","neutral":"#aaaaaa","background":"#ffffff"}`})

	resp := postJSON(t, srv.URL+"/api/brand/palette", models.BrandRequest{Info: info})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Palette  map[string]string `json:"palette"`
		Swatches []map[string]string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "#112233", out.Palette["primary"])
	assert.Len(t, out.Swatches, 5)

	resp = postJSON(t, srv.URL+"/api/brand/names", models.BrandRequest{Info: info, Count: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"Luna", "Luna Studio"}, names["names"], "a reply without names falls back")

	resp = postJSON(t, srv.URL+"/api/brand/statements", models.BrandRequest{Info: info})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st models.Statements
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Contains(t, st.Mission, "Luna", "unparseable statements fall back to templates")

	resp = postJSON(t, srv.URL+"/api/brand/names", models.BrandRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateLogo_Placeholder(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/logo/generate", models.BrandRequest{Info: info, Name: "Lunaria"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "placeholder", resp.Header.Get("X-Logo-Provider"))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err := png.Decode(resp.Body)
	assert.NoError(t, err)
}

func TestVectorizeRoute(t *testing.T) {
	srv := newTestServer(t, nil)

	body, ct := multipartImage(t, logoPNG(t), nil)
	resp, err := http.Post(srv.URL+"/api/logo/vectorize?smooth=false", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	svg, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(svg), `fill="#c0392b"`)
	assert.Contains(t, string(svg), `d="M40 8L40 40L8 40L8 8Z"`)

	blank := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank))
	body, ct = multipartImage(t, buf.Bytes(), nil)
	resp, err = http.Post(srv.URL+"/api/logo/vectorize", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/logo/vectorize", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVariantsRoute(t *testing.T) {
	srv := newTestServer(t, nil)

	body, ct := multipartImage(t, logoPNG(t), map[string]string{"primary": "#1f3a5f", "kinds": "black,negative"})
	resp, err := http.Post(srv.URL+"/api/logo/variants", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"logos/black.svg", "logos/black.png", "logos/negative.svg", "logos/negative.png"}, names)

	body, ct = multipartImage(t, logoPNG(t), map[string]string{"kinds": "sepia"})
	resp, err = http.Post(srv.URL+"/api/logo/variants", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestKitRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/kits", models.CreateBrandKitRequest{Name: "Lunaria", Info: info})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var kit models.BrandKit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&kit))
	require.NotEmpty(t, kit.ID)

	get, err := http.Get(srv.URL + "/api/kits/" + kit.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)

	missing, err := http.Get(srv.URL + "/api/kits/4a8e1c1e-0000-4000-8000-000000000000")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	noLogo, err := http.Get(srv.URL + "/api/kits/" + kit.ID + "/logo.svg")
	require.NoError(t, err)
	defer noLogo.Body.Close()
	assert.Equal(t, http.StatusNotFound, noLogo.StatusCode)

	body, ct := multipartImage(t, logoPNG(t), nil)
	setLogo, err := http.Post(srv.URL+"/api/kits/"+kit.ID+"/logo", ct, body)
	require.NoError(t, err)
	defer setLogo.Body.Close()
	require.Equal(t, http.StatusOK, setLogo.StatusCode)

	svg, err := http.Get(srv.URL + "/api/kits/" + kit.ID + "/logo.svg")
	require.NoError(t, err)
	defer svg.Body.Close()
	assert.Equal(t, http.StatusOK, svg.StatusCode)

	export, err := http.Get(srv.URL + "/api/kits/" + kit.ID + "/export?kinds=icon")
	require.NoError(t, err)
	defer export.Body.Close()
	require.Equal(t, http.StatusOK, export.StatusCode)
	assert.Equal(t, `attachment; filename="lunaria-kit.zip"`, export.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(export.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"logos/icon.svg", "logos/icon.png", "palette.json", "brand.json", "README.txt"}, names)

	list, err := http.Get(srv.URL + "/api/kits?limit=10")
	require.NoError(t, err)
	defer list.Body.Close()
	var listed struct {
		Kits []models.BrandKitSummary `json:"kits"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&listed))
	require.Len(t, listed.Kits, 1)
	assert.True(t, listed.Kits[0].HasLogo)

	upload, err := http.Post(srv.URL+"/api/kits/"+kit.ID+"/upload", "application/json", nil)
	require.NoError(t, err)
	defer upload.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, upload.StatusCode, "Drive is not configured")

	unknown, err := http.Get(srv.URL + "/api/kits/" + kit.ID + "/nope")
	require.NoError(t, err)
	defer unknown.Body.Close()
	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)

	wrongMethod, err := http.Post(srv.URL+"/api/kits/"+kit.ID+"/export", "application/json", nil)
	require.NoError(t, err)
	defer wrongMethod.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.StatusCode)
}

func TestKitRoutes_RejectsOversizedLogo(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"name":"Lunaria","logo":{"width":1,"height":100000000,
		"paths":[{"fill":"#000000","contours":[[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]]}]}}`
	resp, err := http.Post(srv.URL+"/api/kits", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list, err := http.Get(srv.URL + "/api/kits")
	require.NoError(t, err)
	defer list.Body.Close()
	var kits struct {
		Kits []models.BrandKitSummary `json:"kits"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&kits))
	assert.Empty(t, kits.Kits)
}

func TestGenerateLogo_DefaultPaletteFromBusinessName(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/logo/generate", models.BrandRequest{Info: info})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)

	// inside the placeholder disk, above the initials
	want := utils.DefaultPalette(info.BusinessName).Primary
	r, g, b, _ := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()/12).RGBA()
	assert.Equal(t, [3]uint32{uint32(want.R), uint32(want.G), uint32(want.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})
}
