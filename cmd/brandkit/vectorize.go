package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVectorizeCmd() *cobra.Command {
	var (
		output string
		asJSON bool
		flags  traceFlags
	)
	cmd := &cobra.Command{
		Use:   "vectorize <image>",
		Short: "Trace a raster logo into SVG",
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
			v, err := vectorizeFile(args[0], p)
			if err != nil {
				return err
			}

			out := v.SVG()
			if asJSON {
				if out, err = json.MarshalIndent(v, "", "  "); err != nil {
					return fmt.Errorf("failed to encode vector: %w", err)
				}
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s: %d layers, %dx%d\n", output, len(v.Paths), v.Width, v.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the traced vector as JSON instead of SVG")
	flags.register(cmd)
	return cmd
}
