package workspace

import (
	"fmt"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/pane"
)

// Operation names accepted in [Op.Kind].
const (
	OpSplit      = "split"
	OpAdd        = "add"
	OpRemove     = "remove"
	OpMove       = "move"
	OpResizeSash = "resize_sash"
	OpResizeView = "resize_view"
	OpLayout     = "layout"
	OpDistribute = "distribute"
	OpCollapse   = "collapse"
)

// Op is one grid mutation in JSON-friendly form. Which fields apply depends
// on Kind:
//
//	split        Region, Direction, Pane, Sizing (default: split the region)
//	add          Location, Pane, Sizing (default: distribute)
//	remove       Region or Location, Sizing (default: distribute)
//	move         Region, Target, Direction, Sizing; or Location, From, To
//	resize_sash  Location (parent), Sash, Delta
//	resize_view  Region or Location, Size
//	layout       Width, Height
//	distribute   Location (parent)
//	collapse     Region or Location, Collapsed
type Op struct {
	Kind      string            `json:"op"`
	Region    string            `json:"region,omitempty"`
	Target    string            `json:"target,omitempty"`
	Location  grid.Location     `json:"location,omitempty"`
	Direction *grid.Direction   `json:"direction,omitempty"`
	Pane      *pane.Spec        `json:"pane,omitempty"`
	Sizing    *splitview.Sizing `json:"sizing,omitempty"`
	From      int               `json:"from,omitempty"`
	To        int               `json:"to,omitempty"`
	Sash      int               `json:"sash,omitempty"`
	Delta     float64           `json:"delta,omitempty"`
	Size      float64           `json:"size,omitempty"`
	Width     float64           `json:"width,omitempty"`
	Height    float64           `json:"height,omitempty"`
	Collapsed bool              `json:"collapsed,omitempty"`
}

// Validate checks that the fields required by Kind are present.
func (o Op) Validate() error {
	switch o.Kind {
	case OpSplit:
		if o.Region == "" || o.Direction == nil || o.Pane == nil {
			return invalidOp(o, "needs region, direction and pane")
		}
	case OpAdd:
		if o.Pane == nil || len(o.Location) == 0 {
			return invalidOp(o, "needs location and pane")
		}
	case OpRemove, OpCollapse:
		if o.Region == "" && len(o.Location) == 0 {
			return invalidOp(o, "needs region or location")
		}
	case OpResizeView:
		if o.Region == "" && len(o.Location) == 0 {
			return invalidOp(o, "needs region or location")
		}
		if err := errs.ValidateDimension("size", o.Size); err != nil {
			return err
		}
	case OpMove:
		if o.Region != "" && (o.Target == "" || o.Direction == nil) {
			return invalidOp(o, "needs target and direction when moving a region")
		}
	case OpLayout:
		if err := errs.ValidateDimension("width", o.Width); err != nil {
			return err
		}
		if err := errs.ValidateDimension("height", o.Height); err != nil {
			return err
		}
	case OpResizeSash, OpDistribute:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown operation %q", o.Kind)
	}
	if o.Pane != nil {
		if err := o.Pane.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalidOp(o Op, msg string) error {
	return errs.New(errs.ErrCodeInvalidInput, "%s: %s", o.Kind, msg)
}

// String is a short human-readable form used in logs.
func (o Op) String() string {
	switch o.Kind {
	case OpSplit:
		return fmt.Sprintf("split %s %s", o.Region, o.Direction)
	case OpLayout:
		return fmt.Sprintf("layout %vx%v", o.Width, o.Height)
	case OpResizeSash:
		return fmt.Sprintf("resize_sash %v#%d %+g", o.Location, o.Sash, o.Delta)
	}
	if o.Region != "" {
		return o.Kind + " " + o.Region
	}
	return o.Kind + " " + o.Location.String()
}

// Apply performs the operation on g. Geometry-changing operations other than
// layout are followed by a relayout at the grid's current size.
func (o Op) Apply(g *grid.Grid) error {
	if err := o.Validate(); err != nil {
		return err
	}

	switch o.Kind {
	case OpSplit:
		ref, err := g.LocationOf(o.Region)
		if err != nil {
			return err
		}
		loc, err := g.RelativeLocation(ref, *o.Direction)
		if err != nil {
			return err
		}
		p, err := pane.FromSpec(*o.Pane)
		if err != nil {
			return err
		}
		sizing := splitview.Split(ref[len(ref)-1])
		if o.Sizing != nil {
			sizing = *o.Sizing
		}
		if err := g.AddView(p, sizing, loc); err != nil {
			return err
		}

	case OpAdd:
		p, err := pane.FromSpec(*o.Pane)
		if err != nil {
			return err
		}
		if err := g.AddView(p, o.sizingOr(splitview.Distribute), o.Location); err != nil {
			return err
		}

	case OpRemove:
		loc, err := o.target(g)
		if err != nil {
			return err
		}
		if _, err := g.RemoveViewWithSizing(loc, o.sizingOr(splitview.Distribute)); err != nil {
			return err
		}

	case OpMove:
		if o.Region != "" {
			if err := g.MoveRegion(o.Region, o.Target, *o.Direction, o.sizingOr(splitview.Distribute)); err != nil {
				return err
			}
		} else if err := g.MoveView(o.Location, o.From, o.To); err != nil {
			return err
		}

	case OpResizeSash:
		if _, err := g.ResizeSash(o.Location, o.Sash, o.Delta); err != nil {
			return err
		}
		return nil

	case OpResizeView:
		loc, err := o.target(g)
		if err != nil {
			return err
		}
		if err := g.ResizeView(loc, o.Size); err != nil {
			return err
		}
		return nil

	case OpLayout:
		g.Layout(o.Width, o.Height)
		return nil

	case OpDistribute:
		if err := g.DistributeViewSizes(o.Location); err != nil {
			return err
		}
		return nil

	case OpCollapse:
		loc, err := o.target(g)
		if err != nil {
			return err
		}
		if err := g.SetCollapsed(loc, o.Collapsed); err != nil {
			return err
		}
		return nil
	}

	g.Layout(g.Width(), g.Height())
	return nil
}

func (o Op) sizingOr(def splitview.Sizing) splitview.Sizing {
	if o.Sizing != nil {
		return *o.Sizing
	}
	return def
}

func (o Op) target(g *grid.Grid) (grid.Location, error) {
	if o.Region != "" {
		return g.LocationOf(o.Region)
	}
	return o.Location, nil
}
