package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"brandkit/models"
	"brandkit/tracing"
)

// BrandKitRepository stores brand kits in PostgreSQL
// Implements BrandKitRepositoryInterface
type BrandKitRepository struct {
	conn *sql.DB
}

// NewBrandKitRepository creates a new BrandKitRepository on conn
func NewBrandKitRepository(conn *sql.DB) *BrandKitRepository {
	return &BrandKitRepository{conn: conn}
}

// Ensure BrandKitRepository implements BrandKitRepositoryInterface
var _ BrandKitRepositoryInterface = (*BrandKitRepository)(nil)

func logoColumns(logo *tracing.Vector) (any, any, error) {
	if logo == nil {
		return nil, nil, nil
	}
	data, err := json.Marshal(logo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal logo: %w", err)
	}
	return string(data), string(logo.SVG()), nil
}

// Insert stores a new kit
func (r *BrandKitRepository) Insert(ctx context.Context, kit *models.BrandKit) error {
	log.Printf("💾 Inserting brand kit %s (%s)", kit.ID, kit.Name)

	info, err := json.Marshal(kit.Info)
	if err != nil {
		return fmt.Errorf("failed to marshal info: %w", err)
	}
	statements, err := json.Marshal(kit.Statements)
	if err != nil {
		return fmt.Errorf("failed to marshal statements: %w", err)
	}
	palette, err := json.Marshal(kit.Palette)
	if err != nil {
		return fmt.Errorf("failed to marshal palette: %w", err)
	}
	logo, logoSVG, err := logoColumns(kit.Logo)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO brand_kits (id, name, info, statements, palette, logo, logo_svg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.conn.ExecContext(ctx, query,
		kit.ID, kit.Name, string(info), string(statements), string(palette), logo, logoSVG, kit.CreatedAt)
	if err != nil {
		log.Printf("❌ Error inserting brand kit %s: %v", kit.ID, err)
		return fmt.Errorf("failed to insert brand kit: %w", err)
	}

	log.Printf("✓ Brand kit inserted: %s", kit.ID)
	return nil
}

// GetByID loads one kit
func (r *BrandKitRepository) GetByID(ctx context.Context, id string) (*models.BrandKit, error) {
	query := `
		SELECT id, name, info, statements, palette, logo, created_at
		FROM brand_kits
		WHERE id = $1
	`

	var (
		kit                       models.BrandKit
		info, statements, palette []byte
		logo                      []byte
	)
	err := r.conn.QueryRowContext(ctx, query, id).Scan(
		&kit.ID,
		&kit.Name,
		&info,
		&statements,
		&palette,
		&logo,
		&kit.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("❌ Error fetching brand kit %s: %v", id, err)
		return nil, fmt.Errorf("failed to get brand kit: %w", err)
	}

	if err := json.Unmarshal(info, &kit.Info); err != nil {
		return nil, fmt.Errorf("failed to decode info: %w", err)
	}
	if err := json.Unmarshal(statements, &kit.Statements); err != nil {
		return nil, fmt.Errorf("failed to decode statements: %w", err)
	}
	if err := json.Unmarshal(palette, &kit.Palette); err != nil {
		return nil, fmt.Errorf("failed to decode palette: %w", err)
	}
	if len(logo) > 0 {
		kit.Logo = &tracing.Vector{}
		if err := json.Unmarshal(logo, kit.Logo); err != nil {
			return nil, fmt.Errorf("failed to decode logo: %w", err)
		}
	}
	return &kit, nil
}

// UpdateLogo replaces the traced logo of a kit
func (r *BrandKitRepository) UpdateLogo(ctx context.Context, id string, logo *tracing.Vector) error {
	log.Printf("🔄 Updating logo of brand kit %s", id)

	data, svg, err := logoColumns(logo)
	if err != nil {
		return err
	}

	query := `
		UPDATE brand_kits
		SET logo = $1, logo_svg = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.conn.ExecContext(ctx, query, data, svg, id)
	if err != nil {
		log.Printf("❌ Error updating logo of brand kit %s: %v", id, err)
		return fmt.Errorf("failed to update logo: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLogoSVG reads the logo_svg column
func (r *BrandKitRepository) GetLogoSVG(ctx context.Context, id string) ([]byte, error) {
	var svg sql.NullString
	err := r.conn.QueryRowContext(ctx, `SELECT logo_svg FROM brand_kits WHERE id = $1`, id).Scan(&svg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("❌ Error fetching logo of brand kit %s: %v", id, err)
		return nil, fmt.Errorf("failed to get logo: %w", err)
	}
	if !svg.Valid || svg.String == "" {
		return nil, nil
	}
	return []byte(svg.String), nil
}

// List returns the newest kits first
func (r *BrandKitRepository) List(ctx context.Context, limit int) ([]models.BrandKitSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `
		SELECT id, name, logo IS NOT NULL AS has_logo, created_at
		FROM brand_kits
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand kits: %w", err)
	}
	defer rows.Close()

	kits := []models.BrandKitSummary{}
	for rows.Next() {
		var k models.BrandKitSummary
		if err := rows.Scan(&k.ID, &k.Name, &k.HasLogo, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand kit: %w", err)
		}
		kits = append(kits, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brand kits: %w", err)
	}
	return kits, nil
}
