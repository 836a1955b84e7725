package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/modelio"
	"github.com/kstrandberg/uncouple/pkg/viz"
)

// newVisualizeCmd creates the visualize command.
func newVisualizeCmd() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "visualize <model.json>",
		Short: "Render the model's connectivity as DOT, SVG, or PNG",
		Long: `Render the model's port connectivity as a diagram.

Segments are boxes, junctions are diamonds, and each port link is an edge.
Useful before and after 'process' to see what was removed and how the
segments were reconnected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisualize(cmd.Context(), args[0], format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <model>.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include spans and port counts in labels")

	return cmd
}

func runVisualize(ctx context.Context, input, format, output string, detailed bool) error {
	m, err := modelio.ImportJSON(input)
	if err != nil {
		return err
	}
	dot := viz.ToDOT(m, viz.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg", "png":
		spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
		spinner.Start()
		if format == "svg" {
			data, err = viz.RenderSVG(dot)
		} else {
			data, err = viz.RenderPNG(dot)
		}
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown format %q", format)
	}

	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
	}
	printFile(output)
	return nil
}
