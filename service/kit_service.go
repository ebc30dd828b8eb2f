package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandkit/models"
	"brandkit/repository"
	"brandkit/tracing"
	"brandkit/utils"
)

// KitService creates, traces, exports and uploads brand kits
type KitService struct {
	repo     repository.BrandKitRepositoryInterface
	export   *ExportService
	drive    DriveServiceInterface
	folderID string
	now      func() time.Time
}

// NewKitService creates a KitService. drive may be nil when Drive is not
// configured; the Drive operations then fail with ErrNoProvider.
func NewKitService(repo repository.BrandKitRepositoryInterface, export *ExportService, drive DriveServiceInterface, folderID string) *KitService {
	return &KitService{
		repo:     repo,
		export:   export,
		drive:    drive,
		folderID: folderID,
		now:      time.Now,
	}
}

// Create stores a new kit. A missing palette gets the default for the name;
// a supplied logo must pass Vector.Validate.
func (s *KitService) Create(ctx context.Context, req models.CreateBrandKitRequest) (*models.BrandKit, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Info.BusinessName)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if req.Logo != nil {
		if err := req.Logo.Validate(maxUploadDim); err != nil {
			return nil, err
		}
	}

	palette := utils.DefaultPalette(name)
	if req.Palette != nil {
		palette = *req.Palette
	}

	kit := &models.BrandKit{
		ID:         uuid.NewString(),
		Name:       name,
		Info:       req.Info,
		Statements: req.Statements,
		Palette:    palette,
		Logo:       req.Logo,
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Insert(ctx, kit); err != nil {
		return nil, err
	}
	log.Printf("✓ Brand kit created: %s (%s)", kit.ID, kit.Name)
	return kit, nil
}

// Get loads a kit by ID
func (s *KitService) Get(ctx context.Context, id string) (*models.BrandKit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// LogoSVG returns the SVG stored with the kit's logo, nil when it has none
func (s *KitService) LogoSVG(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetLogoSVG(ctx, id)
}

// List returns the newest kits
func (s *KitService) List(ctx context.Context, limit int) ([]models.BrandKitSummary, error) {
	return s.repo.List(ctx, limit)
}

// SetLogo traces image data and stores it as the kit's logo
func (s *KitService) SetLogo(ctx context.Context, id string, data []byte, p tracing.Params) (*models.BrandKit, error) {
	kit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := VectorizeLogo(data, p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLogo(ctx, id, v); err != nil {
		return nil, err
	}
	kit.Logo = v
	return kit, nil
}

// ImportDriveLogo downloads a Drive image and stores it as the kit's logo
func (s *KitService) ImportDriveLogo(ctx context.Context, id, fileID string, p tracing.Params) (*models.BrandKit, error) {
	if s.drive == nil {
		return nil, ErrNoProvider
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	data, err := s.drive.DownloadImage(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.SetLogo(ctx, id, data, p)
}

// ListDriveLogos lists candidate logo images in a Drive folder, the
// configured one when folderID is empty
func (s *KitService) ListDriveLogos(ctx context.Context, folderID string) ([]models.DriveFile, error) {
	if s.drive == nil {
		return nil, ErrNoProvider
	}
	if folderID == "" {
		folderID = s.folderID
	}
	if folderID == "" {
		return nil, fmt.Errorf("folderId is required")
	}
	return s.drive.ListImages(ctx, folderID)
}

// Export packages a stored kit
func (s *KitService) Export(ctx context.Context, id string, opts ExportOptions) (*models.BrandKit, []byte, error) {
	kit, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.export.Export(ctx, kit, opts)
	if err != nil {
		return nil, nil, err
	}
	return kit, data, nil
}

// Guidelines renders the kit's guidelines PDF
func (s *KitService) Guidelines(ctx context.Context, id string) (*models.BrandKit, []byte, error) {
	kit, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.export.guidelines == nil {
		return nil, nil, ErrNoProvider
	}
	var variants []models.LogoVariant
	if kit.Logo != nil {
		variants, err = s.export.variants.Render(ctx, kit.Logo, &kit.Palette, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render variants: %w", err)
		}
	}
	html, err := s.export.guidelines.RenderHTML(kit, variants)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.export.guidelines.GeneratePDF(ctx, html)
	if err != nil {
		return nil, nil, err
	}
	return kit, pdf, nil
}

// Upload exports the kit with guidelines and uploads the archive to Drive
func (s *KitService) Upload(ctx context.Context, id string) (string, error) {
	if s.drive == nil {
		return "", ErrNoProvider
	}
	kit, data, err := s.Export(ctx, id, ExportOptions{Guidelines: true})
	if err != nil {
		return "", err
	}
	name := ArchiveName(kit)
	fileID, err := s.drive.UploadFile(ctx, s.folderID, name, "application/zip", data)
	if err != nil {
		return "", err
	}
	return fileID, nil
}

// ArchiveName is the file name of a kit's export
func ArchiveName(kit *models.BrandKit) string {
	return utils.Slugify(kit.Name, "brand") + "-kit.zip"
}

// VectorizeLogo decodes image data and traces it
func VectorizeLogo(data []byte, p tracing.Params) (*tracing.Vector, error) {
	img, err := DecodeLogo(data)
	if err != nil {
		return nil, err
	}
	v, err := tracing.Vectorize(img, p)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize logo: %w", err)
	}
	log.Printf("✓ Logo vectorized: %dx%d, %d paths", v.Width, v.Height, len(v.Paths))
	return v, nil
}
