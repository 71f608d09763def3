package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/pipeline"
)

// renderCommand draws a level file in one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats   []string
		output    string
		highlight []int
	)

	cmd := &cobra.Command{
		Use:   "render <level>",
		Short: "Render a level as DOT, SVG, PNG or PDF",
		Long: `Render a level file. Diodes are drawn as arrows, switches as double circles
and gated edges dashed (green when open, red when closed).

PNG and PDF output need rsvg-convert on PATH.`,
		Example: `  circuitgen render level.json
  circuitgen render level.json -f svg,png -o out/level --highlight 0,3,5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			l, err := readLevelArg(args[0])
			if err != nil {
				return err
			}
			base := output
			if base == "" {
				base = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}

			prog := newProgress(c.Logger)
			var written []string
			for _, f := range formats {
				path := fmt.Sprintf("%s.%s", base, f)
				if err := writeLevel(cmd.Context(), l, path, highlight); err != nil {
					return fmt.Errorf("render %s: %w", f, err)
				}
				written = append(written, path)
			}
			prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

			printSuccess("Rendered %s", l.ID)
			for _, p := range written {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{pipeline.FormatSVG}, "output formats: dot, svg, png, pdf, json, yaml")
	completeFlag(cmd, "format", formatValues...)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: input path)")
	cmd.Flags().IntSliceVar(&highlight, "highlight", nil, "edge ids to draw bold")

	return cmd
}
