package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		orientation string
		width       float64
		height      float64
		panes       []string
	)

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty layout",
		Long: `Create a named layout document.

The layout starts empty unless --pane is given; each --pane adds a region
along the root with equal sizes. Width, height and orientation default to
the [grid] section of the config file.`,
		Example: `  splitgrid new work --pane editor --pane logs
  splitgrid new dash --orientation vertical --width 200 --height 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(cfg config.Config, runner *workspace.Runner) error {
				return c.runNew(cmd, cfg, runner, args[0], orientation, width, height, panes)
			})
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "", "root orientation: horizontal (default), vertical")
	cmd.Flags().Float64Var(&width, "width", 0, "layout width (default: config grid.width)")
	cmd.Flags().Float64Var(&height, "height", 0, "layout height (default: config grid.height)")
	cmd.Flags().StringSliceVarP(&panes, "pane", "p", nil, "initial pane title (repeatable)")

	return cmd
}

func (c *CLI) runNew(cmd *cobra.Command, cfg config.Config, runner *workspace.Runner, name, orientation string, width, height float64, panes []string) error {
	ctx := cmd.Context()
	o := cfg.Grid.Orientation
	if orientation != "" {
		parsed, err := grid.ParseOrientation(orientation)
		if err != nil {
			return err
		}
		o = parsed
	}
	if width == 0 {
		width = cfg.Grid.Width
	}
	if height == 0 {
		height = cfg.Grid.Height
	}

	doc, err := runner.Create(ctx, name, o, width, height)
	if err != nil {
		return err
	}

	var ops []workspace.Op
	for i, title := range panes {
		spec, err := paneFlags{}.spec(cfg, title)
		if err != nil {
			return err
		}
		distribute := splitview.Distribute
		ops = append(ops, workspace.Op{
			Kind:     workspace.OpAdd,
			Location: grid.Location{i},
			Pane:     &spec,
			Sizing:   &distribute,
		})
	}

	var summary layoutSummary
	if len(ops) > 0 {
		res, err := runner.Apply(ctx, doc.ID, ops...)
		if err != nil {
			// The empty document already exists; do not leave it behind.
			_ = runner.Delete(ctx, doc.ID)
			return err
		}
		summary = layoutSummary{regions: len(res.Boxes), violations: res.Violations}
	}

	out := consoleFor(cmd)
	out.success("Created %s", StyleHighlight.Render(name))
	out.field("ID", doc.ID)
	out.field("Size", fmt.Sprintf("%gx%g %s", width, height, o))
	out.summary(summary)
	out.hint("Preview", appName+" show "+name)
	return nil
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored layouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				docs, err := runner.Store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(docs) == 0 {
					out := consoleFor(cmd)
					out.info("No layouts yet")
					out.hint("Create one", appName+" new NAME")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), documentTable(docs, time.Now()))
				return nil
			})
		},
	}
}

// documentTable renders docs most recently updated first.
func documentTable(docs []*document.Document, now time.Time) string {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		regions := "?"
		if g, err := d.Build(0, 0, nil); err == nil {
			regions = fmt.Sprint(g.Len())
		}
		rows = append(rows, []string{
			d.Name,
			d.ID,
			regions,
			fmt.Sprintf("%gx%g", d.Layout.Width, d.Layout.Height),
			formatRelativeTime(d.UpdatedAt, now),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "ID", "Regions", "Size", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 1 || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		opts   workspace.RenderOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "show DOC",
		Short: "Render a layout",
		Long: `Render a layout to the terminal or a file.

Formats:
  text   box drawing, one cell per unit (default)
  boxes  JSON list of region rectangles
  dot    Graphviz source of the split tree
  svg    split tree rendered by Graphviz

--width and --height lay the document out at a different size without
changing it. Output is cached unless --no-cache is set.`,
		Example: `  splitgrid show work
  splitgrid show work --selected logs --color
  splitgrid show work --format boxes --width 200 --height 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				return c.runShow(cmd, runner, args[0], opts, output)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", workspace.FormatText, "output format: text, boxes, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "lay out at this width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "lay out at this height")
	cmd.Flags().StringVarP(&opts.Selected, "selected", "s", "", "highlight a region (text)")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "style borders and titles (text)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add geometry to tree labels (dot, svg)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached output")

	return cmd
}

func (c *CLI) runShow(cmd *cobra.Command, runner *workspace.Runner, ref string, opts workspace.RenderOptions, output string) error {
	ctx := cmd.Context()
	doc, err := runner.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	data, cached, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return err
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

	res, err := runner.Inspect(ctx, doc.ID)
	if err != nil {
		return err
	}
	out := consoleFor(cmd)
	out.success("Rendered %s", doc.Name)
	out.file(output)
	out.summary(layoutSummary{regions: len(res.Boxes), violations: res.Violations, cached: cached})
	return nil
}

// deleteCommand creates the "delete" command.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete DOC",
		Aliases: []string{"rm"},
		Short:   "Delete a layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				if err := runner.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				consoleFor(cmd).success("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export DOC",
		Short: "Write a layout document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				doc, err := runner.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return document.Write(doc, cmd.OutOrStdout())
				}
				if err := errs.ValidatePath(output); err != nil {
					return err
				}
				if err := document.WriteFile(doc, output); err != nil {
					return err
				}
				out := consoleFor(cmd)
				out.success("Exported %s", doc.Name)
				out.file(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a layout document read from JSON",
		Long: `Store a layout document read from JSON.

The document keeps its ID, so importing a file exported from the same store
replaces the stored layout. The layout is rebuilt before storing to reject
invalid trees.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
				return runImport(cmd.Context(), consoleFor(cmd), runner, args[0], name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rename the imported layout")

	return cmd
}

func runImport(ctx context.Context, out console, runner *workspace.Runner, path, name string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	doc, err := document.ReadFile(path)
	if err != nil {
		return err
	}
	if name != "" {
		doc.Name = name
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	g, err := doc.Build(0, 0, runner.Logger)
	if err != nil {
		return err
	}
	if err := runner.Put(ctx, doc); err != nil {
		return err
	}
	out.success("Imported %s", StyleHighlight.Render(doc.Name))
	out.field("ID", doc.ID)
	out.summary(layoutSummary{regions: g.Len(), violations: g.Violations()})
	return nil
}

// formatRelativeTime renders t relative to now for tables.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
