package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/pane"
)

// paneFlags holds the flags describing a pane to create.
type paneFlags struct {
	id        string
	title     string
	minWidth  float64
	minHeight float64
	maxWidth  float64
	maxHeight float64
	priority  string
	snap      bool
}

func (f *paneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "region id (default: the title when it is a valid id, else random)")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "pane title")
	cmd.Flags().Float64Var(&f.minWidth, "min-width", 0, "minimum width (default: config pane.min_width)")
	cmd.Flags().Float64Var(&f.minHeight, "min-height", 0, "minimum height (default: config pane.min_height)")
	cmd.Flags().Float64Var(&f.maxWidth, "max-width", 0, "maximum width, 0 for unbounded")
	cmd.Flags().Float64Var(&f.maxHeight, "max-height", 0, "maximum height, 0 for unbounded")
	cmd.Flags().StringVar(&f.priority, "priority", "", "resize priority: normal (default), low, high")
	cmd.Flags().BoolVar(&f.snap, "snap", false, "collapse when dragged below the minimum (default: config pane.snap)")
}

// spec builds a validated pane spec. An empty title falls back to the
// --title flag; zero minimums fall back to the config.
func (f paneFlags) spec(cfg config.Config, title string) (pane.Spec, error) {
	if title == "" {
		title = f.title
	}
	opts := []pane.Option{
		pane.WithMinimumSize(orDefault(f.minWidth, cfg.Pane.MinWidth), orDefault(f.minHeight, cfg.Pane.MinHeight)),
		pane.WithMaximumSize(f.maxWidth, f.maxHeight),
		pane.WithSnap(f.snap || cfg.Pane.Snap),
	}
	if f.priority != "" {
		p, err := splitview.ParsePriority(f.priority)
		if err != nil {
			return pane.Spec{}, err
		}
		opts = append(opts, pane.WithPriority(p))
	}

	id := f.id
	if id == "" && title != "" && errs.ValidateRegionID(title) == nil {
		id = title
	}
	if id != "" {
		opts = append(opts, pane.WithID(id))
	}

	p, err := pane.New(title, opts...)
	if err != nil {
		return pane.Spec{}, err
	}
	return p.Spec(), nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
