package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"brandkit/service"
	"brandkit/utils"
)

func newVariantsCmd() *cobra.Command {
	var (
		outDir     string
		primary    string
		background string
		kinds      string
		flags      traceFlags
	)
	cmd := &cobra.Command{
		Use:   "variants <image>",
		Short: "Render the logo variants of an image into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			var pal *utils.Palette
			if primary != "" || background != "" {
				bw, err := palette("", primary, background)
				if err != nil {
					return err
				}
				if primary == "" {
					bw.Primary = utils.Black
				}
				if background == "" {
					bw.Background = utils.White
				}
				pal = &bw
			}

			v, err := vectorizeFile(args[0], p)
			if err != nil {
				return err
			}
			variants, err := service.NewVariantService(engine, nil).Render(cmd.Context(), v, pal, ks)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}
			for _, vr := range variants {
				base := filepath.Join(outDir, string(vr.Kind))
				if err := os.WriteFile(base+".svg", vr.SVG, 0644); err != nil {
					return fmt.Errorf("failed to write %s.svg: %w", base, err)
				}
				if err := os.WriteFile(base+".png", vr.PNG, 0644); err != nil {
					return fmt.Errorf("failed to write %s.png: %w", base, err)
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %-12s %dx%d\n", vr.Kind, vr.Width, vr.Height)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "variants", "output directory")
	cmd.Flags().StringVar(&primary, "primary", "", "primary color for the negative variant")
	cmd.Flags().StringVar(&background, "background", "", "background color for the original variant")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma separated variants (profile default when empty)")
	flags.register(cmd)
	return cmd
}
