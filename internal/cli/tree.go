package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/render/treeviz"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

var treeFormats = []string{"dot", "svg", "png", "pdf"}

// treeCommand creates the "tree" command, which draws the split tree of a
// layout with Graphviz.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "tree DOC",
		Short: "Draw the split tree of a layout",
		Long: `Draw the split tree of a layout with Graphviz.

Branches show their orientation and location, edges carry each child's size
and collapsed regions are dashed. PNG and PDF output require rsvg-convert.
The format defaults to the extension of --output, or DOT.`,
		Example: `  splitgrid tree work | dot -Tpng > tree.png
  splitgrid tree work -o tree.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = "dot"
			}
			if !slices.Contains(treeFormats, format) {
				return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want %s)", format, strings.Join(treeFormats, ", "))
			}
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				return c.runTree(cmd, runner, args[0], output, format, detailed, scale)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, png, pdf (default: from --output extension, else dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show sizes and constraints")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, runner *workspace.Runner, ref, output, format string, detailed bool, scale float64) error {
	prog := newProgress(c.Logger)
	_, g, err := runner.Load(cmd.Context(), ref)
	if err != nil {
		return err
	}

	dot := treeviz.ToDOT(g, treeviz.Options{Detailed: detailed})
	var data []byte
	switch format {
	case "svg":
		data, err = treeviz.RenderSVG(dot)
	case "png":
		data, err = treeviz.RenderPNG(dot, scale)
	case "pdf":
		data, err = treeviz.RenderPDF(dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := errs.ValidatePath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Rendered %s tree", format))
	consoleFor(cmd).file(output)
	return nil
}
