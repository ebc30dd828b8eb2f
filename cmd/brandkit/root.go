package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"brandkit/config"
	"brandkit/models"
	"brandkit/profile"
	"brandkit/service"
	"brandkit/tracing"
	"brandkit/utils"
)

// profilePath is shared by every command that traces or renders
var profilePath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brandkit",
		Short: "Brand kit tools - vectorize logos and package brand assets",
		Long: `brandkit converts raster logos into SVG, renders the standard logo variants
and packages complete brand kits without running the HTTP server.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&profilePath, "profile", os.Getenv(config.ProfileEnv), "export profile (YAML)")

	root.AddCommand(newVectorizeCmd())
	root.AddCommand(newVariantsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newPaletteCmd())
	return root
}

func loadEngine() (*profile.Engine, error) {
	return profile.Load(profilePath)
}

// traceFlags are the tracing overrides accepted by the commands that trace
type traceFlags struct {
	threshold int
	colors    int
	turd      int
	tolerance float64
	blur      float64
	smooth    bool
	invert    bool
}

func (f *traceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, "luminance threshold, 0 for automatic")
	cmd.Flags().IntVar(&f.colors, "colors", 1, "number of color layers (1-16)")
	cmd.Flags().IntVar(&f.turd, "turd", 4, "drop specks smaller than this many pixels")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0.8, "simplification tolerance in pixels")
	cmd.Flags().Float64Var(&f.blur, "blur", 0, "gaussian blur before thresholding")
	cmd.Flags().BoolVar(&f.smooth, "smooth", true, "emit curves instead of straight segments")
	cmd.Flags().BoolVar(&f.invert, "invert", false, "trace light shapes on a dark background")
}

// apply overrides base with the flags the user actually set
func (f *traceFlags) apply(cmd *cobra.Command, base tracing.Params) (tracing.Params, error) {
	p := base
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		if f.threshold < 0 || f.threshold > 255 {
			return p, fmt.Errorf("threshold must be between 0 and 255, got %d", f.threshold)
		}
		p.Threshold = uint8(f.threshold)
	}
	if flags.Changed("colors") {
		if f.colors < 1 || f.colors > 16 {
			return p, fmt.Errorf("colors must be between 1 and 16, got %d", f.colors)
		}
		p.Colors = f.colors
	}
	if flags.Changed("turd") {
		p.TurdSize = f.turd
	}
	if flags.Changed("tolerance") {
		if f.tolerance < 0 {
			return p, fmt.Errorf("tolerance must not be negative")
		}
		p.Tolerance = f.tolerance
	}
	if flags.Changed("blur") {
		p.Blur = f.blur
	}
	if flags.Changed("smooth") {
		p.Smooth = f.smooth
	}
	if flags.Changed("invert") {
		p.Invert = f.invert
	}
	return p, nil
}

func vectorizeFile(path string, p tracing.Params) (*tracing.Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return service.VectorizeLogo(data, p)
}

// parseKinds reads a comma separated kind list; empty means the profile's
func parseKinds(s string) ([]models.VariantKind, error) {
	var kinds []models.VariantKind
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		k, err := models.ParseVariantKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// palette builds the kit palette: the default for name with the given
// colors laid over it
func palette(name, primary, background string) (utils.Palette, error) {
	p := utils.DefaultPalette(name)
	if primary != "" {
		c, err := utils.ParseColor(primary)
		if err != nil {
			return p, fmt.Errorf("invalid primary color: %w", err)
		}
		p.Primary = c
	}
	if background != "" {
		c, err := utils.ParseColor(background)
		if err != nil {
			return p, fmt.Errorf("invalid background color: %w", err)
		}
		p.Background = c
	}
	return p, nil
}
