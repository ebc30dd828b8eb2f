package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brandkit/models"
	"brandkit/service"
)

func newExportCmd() *cobra.Command {
	var (
		output     string
		name       string
		industry   string
		primary    string
		background string
		kinds      string
		withPDF    bool
		chromePath string
		flags      traceFlags
	)
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Package a logo into a complete brand kit archive",
		Long: `export traces the logo, renders every variant and writes a ZIP with the
palette, brand statements and, with --pdf, the printed guidelines.
Statements come from the built-in templates; no model is called.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			p, err := flags.apply(cmd, engine.TraceParams())
			if err != nil {
				return err
			}
			ks, err := parseKinds(kinds)
			if err != nil {
				return err
			}
			pal, err := palette(name, primary, background)
			if err != nil {
				return err
			}
			v, err := vectorizeFile(args[0], p)
			if err != nil {
				return err
			}

			info := models.BrandInfo{BusinessName: name, Industry: industry}
			kit := &models.BrandKit{
				ID:         uuid.NewString(),
				Name:       name,
				Info:       info,
				Statements: service.FallbackStatements(info, name),
				Palette:    pal,
				Logo:       v,
				CreatedAt:  time.Now().UTC().Truncate(time.Second),
			}

			var guidelines service.GuidelinesServiceInterface
			if withPDF {
				guidelines = service.NewGuidelinesService(chromePath)
			}
			exporter := service.NewExportService(service.NewVariantService(engine, nil), guidelines)
			archive, err := exporter.Export(cmd.Context(), kit, service.ExportOptions{Kinds: ks, Guidelines: withPDF})
			if err != nil {
				return err
			}

			if output == "" {
				output = service.ArchiveName(kit)
			}
			if err := os.WriteFile(output, archive, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s (%d bytes)\n", output, len(archive))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (<name>-kit.zip when empty)")
	cmd.Flags().StringVar(&name, "name", "", "brand name")
	cmd.Flags().StringVar(&industry, "industry", "", "industry used in the statements")
	cmd.Flags().StringVar(&primary, "primary", "", "primary color (default palette when empty)")
	cmd.Flags().StringVar(&background, "background", "", "background color")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma separated variants (profile default when empty)")
	cmd.Flags().BoolVar(&withPDF, "pdf", false, "print the guidelines PDF with Chrome")
	cmd.Flags().StringVar(&chromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	flags.register(cmd)
	return cmd
}
