package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"brandkit/models"
	"brandkit/utils"
)

//go:embed templates/guidelines.html
var templateFS embed.FS

var guidelinesTemplate = template.Must(template.ParseFS(templateFS, "templates/guidelines.html"))

// GuidelinesServiceInterface renders the brand guidelines document
type GuidelinesServiceInterface interface {
	RenderHTML(kit *models.BrandKit, variants []models.LogoVariant) (string, error)
	GeneratePDF(ctx context.Context, html string) ([]byte, error)
}

// GuidelinesService renders guidelines as HTML and prints them with Chrome
type GuidelinesService struct {
	chromePath string
	timeout    time.Duration
}

var _ GuidelinesServiceInterface = (*GuidelinesService)(nil)

// NewGuidelinesService creates a GuidelinesService. An empty chromePath
// searches the usual install locations.
func NewGuidelinesService(chromePath string) *GuidelinesService {
	return &GuidelinesService{chromePath: chromePath, timeout: 30 * time.Second}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path and CHROME_PATH first, then common installation paths
func detectChromePath(configured string) string {
	for _, p := range []string{configured, os.Getenv("CHROME_PATH")} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

type swatchView struct {
	Name     string
	Hex      template.CSS
	TextHex  template.CSS
	RGB      string
	Contrast string
}

type logoView struct {
	Kind  models.VariantKind
	Src   template.URL
	Frame string
}

type guidelinesView struct {
	Name       string
	Statements models.Statements
	Primary    template.CSS
	Background template.CSS
	Text       template.CSS
	Hero       template.URL
	Swatches   []swatchView
	Logos      []logoView
}

func pngDataURI(data []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
}

// RenderHTML fills the guidelines template. Logos are inlined as data URIs
// so the document renders without network access.
func (s *GuidelinesService) RenderHTML(kit *models.BrandKit, variants []models.LogoVariant) (string, error) {
	if kit == nil {
		return "", fmt.Errorf("brand kit is required")
	}

	view := guidelinesView{
		Name:       kit.Name,
		Statements: kit.Statements,
		Primary:    template.CSS(kit.Palette.Primary.Hex()),
		Background: template.CSS(kit.Palette.Background.Hex()),
		Text:       template.CSS(utils.TextOn(kit.Palette.Background).Hex()),
	}
	for _, sw := range kit.Palette.Swatches() {
		view.Swatches = append(view.Swatches, swatchView{
			Name:     sw.Name,
			Hex:      template.CSS(sw.Color.Hex()),
			TextHex:  template.CSS(sw.Text.Hex()),
			RGB:      sw.Color.RGB(),
			Contrast: fmt.Sprintf("%.1f", utils.ContrastRatio(sw.Color, sw.Text)),
		})
	}
	for _, v := range variants {
		if len(v.PNG) == 0 {
			continue
		}
		frame := ""
		switch v.Kind {
		case models.VariantWhite:
			frame = "dark"
		case models.VariantTransparent, models.VariantIcon:
			frame = "checker"
		}
		view.Logos = append(view.Logos, logoView{Kind: v.Kind, Src: pngDataURI(v.PNG), Frame: frame})
		if v.Kind == models.VariantTransparent || (view.Hero == "" && v.Kind == models.VariantOriginal) {
			view.Hero = pngDataURI(v.PNG)
		}
	}

	var buf bytes.Buffer
	if err := guidelinesTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints html to an A4 PDF with headless Chrome
func (s *GuidelinesService) GeneratePDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	chromePath := detectChromePath(s.chromePath)
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.DisableGPU,
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		log.Printf("⚠️  Chrome not found in known locations, letting chromedp search PATH")
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✓ Guidelines PDF generated (%d bytes)", len(pdfBuf))
	return pdfBuf, nil
}
