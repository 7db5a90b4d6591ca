package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// =============================================================================
// Shared
// =============================================================================

// applyOps runs ops as one batch against ref and reports the result.
func (c *CLI) applyOps(cmd *cobra.Command, ref string, build func(config.Config) ([]workspace.Op, error)) error {
	return c.withRunner(cmd.Context(), func(cfg config.Config, runner *workspace.Runner) error {
		ops, err := build(cfg)
		if err != nil {
			return err
		}
		res, err := runner.Apply(cmd.Context(), ref, ops...)
		if err != nil {
			return err
		}

		descs := make([]string, len(ops))
		for i, op := range ops {
			descs[i] = op.String()
		}
		out := consoleFor(cmd)
		out.success("%s %s", res.Document.Name, StyleDim.Render(strings.Join(descs, ", ")))
		out.summary(layoutSummary{regions: len(res.Boxes), violations: res.Violations})
		return nil
	})
}

// parseSizing parses an optional --sizing flag. Empty leaves the operation's
// default in place.
func parseSizing(s string) (*splitview.Sizing, error) {
	if s == "" {
		return nil, nil
	}
	sizing, err := splitview.ParseSizing(s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "--sizing")
	}
	return &sizing, nil
}

func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s: %q is not a number", name, s)
	}
	return v, nil
}

const sizingHelp = "sizing: distribute, autofill, fixed:N, split:N"

// =============================================================================
// split
// =============================================================================

func (c *CLI) splitCommand() *cobra.Command {
	var (
		pf     paneFlags
		sizing string
	)

	cmd := &cobra.Command{
		Use:   "split DOC REGION DIRECTION",
		Short: "Open a new pane next to a region",
		Long: `Open a new pane next to REGION in DIRECTION (left, right, up, down).

By default the new pane takes half of REGION's space. When DIRECTION runs
across REGION's parent split, REGION is promoted into a nested split.`,
		Example: `  splitgrid split work editor right --title logs
  splitgrid split work logs down --id shell --sizing fixed:10`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := grid.ParseDirection(args[2])
			if err != nil {
				return err
			}
			return c.applyOps(cmd, args[0], func(cfg config.Config) ([]workspace.Op, error) {
				spec, err := pf.spec(cfg, "")
				if err != nil {
					return nil, err
				}
				s, err := parseSizing(sizing)
				if err != nil {
					return nil, err
				}
				return []workspace.Op{{
					Kind:      workspace.OpSplit,
					Region:    args[1],
					Direction: &dir,
					Pane:      &spec,
					Sizing:    s,
				}}, nil
			})
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&sizing, "sizing", "", sizingHelp+" (default: split the region)")

	return cmd
}

// =============================================================================
// remove
// =============================================================================

func (c *CLI) removeCommand() *cobra.Command {
	var sizing string

	cmd := &cobra.Command{
		Use:   "remove DOC REGION",
		Short: "Close a pane",
		Long: `Close a pane. Its space goes to its siblings; a split left with a single
child is folded into its parent.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				s, err := parseSizing(sizing)
				if err != nil {
					return nil, err
				}
				return []workspace.Op{{Kind: workspace.OpRemove, Region: args[1], Sizing: s}}, nil
			})
		},
	}

	cmd.Flags().StringVar(&sizing, "sizing", "", sizingHelp+" (default: distribute)")

	return cmd
}

// =============================================================================
// move
// =============================================================================

func (c *CLI) moveCommand() *cobra.Command {
	var sizing string

	cmd := &cobra.Command{
		Use:   "move DOC REGION TARGET DIRECTION",
		Short: "Move a pane next to another pane",
		Example: `  splitgrid move work shell editor down`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := grid.ParseDirection(args[3])
			if err != nil {
				return err
			}
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				s, err := parseSizing(sizing)
				if err != nil {
					return nil, err
				}
				return []workspace.Op{{
					Kind:      workspace.OpMove,
					Region:    args[1],
					Target:    args[2],
					Direction: &dir,
					Sizing:    s,
				}}, nil
			})
		},
	}

	cmd.Flags().StringVar(&sizing, "sizing", "", sizingHelp+" (default: distribute)")

	return cmd
}

// =============================================================================
// resize
// =============================================================================

func (c *CLI) resizeCommand() *cobra.Command {
	var (
		parent string
		sash   int
		delta  float64
	)

	cmd := &cobra.Command{
		Use:   "resize DOC [REGION SIZE]",
		Short: "Resize a pane or drag a sash",
		Long: `Resize a pane along its parent split, or drag a sash.

With REGION and SIZE the region's size along its parent split is set and
the difference is taken from its siblings. With --sash the sash between
children N and N+1 of the split at --parent moves by --delta; a positive
delta grows the child before the sash.`,
		Example: `  splitgrid resize work editor 80
  splitgrid resize work --parent "[1]" --sash 0 --delta -5`,
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sash") {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var op workspace.Op
			if cmd.Flags().Changed("sash") {
				loc, err := grid.ParseLocation(parent)
				if err != nil {
					return err
				}
				op = workspace.Op{Kind: workspace.OpResizeSash, Location: loc, Sash: sash, Delta: delta}
			} else {
				size, err := parseFloatArg("SIZE", args[2])
				if err != nil {
					return err
				}
				op = workspace.Op{Kind: workspace.OpResizeView, Region: args[1], Size: size}
			}
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				return []workspace.Op{op}, nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "[]", "location of the split owning the sash")
	cmd.Flags().IntVar(&sash, "sash", 0, "sash index")
	cmd.Flags().Float64Var(&delta, "delta", 0, "distance to move the sash")

	return cmd
}

// =============================================================================
// layout, distribute, collapse
// =============================================================================

func (c *CLI) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout DOC WIDTH HEIGHT",
		Short: "Change a layout's size",
		Long: `Change a layout's size. Every split scales its children proportionally
and then enforces their constraints.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := parseFloatArg("WIDTH", args[1])
			if err != nil {
				return err
			}
			height, err := parseFloatArg("HEIGHT", args[2])
			if err != nil {
				return err
			}
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				return []workspace.Op{{Kind: workspace.OpLayout, Width: width, Height: height}}, nil
			})
		},
	}
}

func (c *CLI) distributeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "distribute DOC [PARENT]",
		Short: "Give the children of a split equal sizes",
		Example: `  splitgrid distribute work
  splitgrid distribute work "[1]"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := grid.Location{}
			if len(args) == 2 {
				parsed, err := grid.ParseLocation(args[1])
				if err != nil {
					return err
				}
				loc = parsed
			}
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				return []workspace.Op{{Kind: workspace.OpDistribute, Location: loc}}, nil
			})
		},
	}
}

func (c *CLI) collapseCommand() *cobra.Command {
	var expand bool

	cmd := &cobra.Command{
		Use:   "collapse DOC REGION",
		Short: "Collapse or expand a pane",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.applyOps(cmd, args[0], func(config.Config) ([]workspace.Op, error) {
				return []workspace.Op{{Kind: workspace.OpCollapse, Region: args[1], Collapsed: !expand}}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "expand instead of collapsing")

	return cmd
}
