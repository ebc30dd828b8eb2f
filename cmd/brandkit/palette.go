package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"brandkit/service"
	"brandkit/utils"
)

func newPaletteCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "List the dominant colors of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if k < 1 || k > 16 {
				return fmt.Errorf("-k must be between 1 and 16, got %d", k)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			img, err := service.DecodeLogo(data)
			if err != nil {
				return err
			}
			colors := utils.DominantColors(img, k)
			if len(colors) == 0 {
				return fmt.Errorf("image has no opaque pixels")
			}
			out := cmd.OutOrStdout()
			for _, c := range colors {
				color.BgRGB(int(c.R), int(c.G), int(c.B)).Fprint(out, "    ")
				fmt.Fprintf(out, " %s  %s\n", c.Hex(), c.RGB())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "colors", "k", 5, "number of colors")
	return cmd
}
