package grid

import (
	"fmt"
	"slices"
)

// Box is the absolute rectangle of a region.
type Box struct {
	ID       string   `json:"id"`
	Location Location `json:"location"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// Boxes returns the rectangle of every region in depth-first order, with the
// origin at the top-left corner of the grid.
func (g *Grid) Boxes() []Box {
	var boxes []Box
	var visit func(b *BranchNode, x, y float64, loc Location)
	visit = func(b *BranchNode, x, y float64, loc Location) {
		offset := 0.0
		for i := 0; i < b.Len(); i++ {
			cx, cy := x, y
			if b.orientation == Horizontal {
				cx += offset
			} else {
				cy += offset
			}
			offset += b.split.ViewSize(i)
			childLoc := append(loc.Clone(), i)
			switch n := b.Child(i).(type) {
			case *BranchNode:
				visit(n, cx, cy, childLoc)
			case *LeafNode:
				boxes = append(boxes, Box{
					ID:       n.region.ID(),
					Location: childLoc,
					X:        cx,
					Y:        cy,
					Width:    n.Width(),
					Height:   n.Height(),
				})
			}
		}
	}
	visit(g.root, 0, 0, Location{})
	return boxes
}

// Violation describes a region whose size falls outside its constraints.
type Violation struct {
	ID       string   `json:"id"`
	Location Location `json:"location"`
	Reason   string   `json:"reason"`
}

// Violations lists regions left outside their constraints by the last
// layout. Collapsed regions are exempt. A non-empty result means the
// constraints could not all be satisfied at the current grid size.
func (g *Grid) Violations() []Violation {
	var out []Violation
	_ = g.Walk(func(loc Location, n Node) error {
		l, ok := n.(*LeafNode)
		if !ok || l.Collapsed() {
			return nil
		}
		r := l.region
		check := func(axis string, v, lo, hi float64) {
			const tolerance = 1e-9
			switch {
			case v < lo-tolerance:
				out = append(out, Violation{r.ID(), loc, fmt.Sprintf("%s %g below minimum %g", axis, v, lo)})
			case v > hi+tolerance && hi >= lo:
				out = append(out, Violation{r.ID(), loc, fmt.Sprintf("%s %g above maximum %g", axis, v, hi)})
			}
		}
		check("width", l.Width(), r.MinimumWidth(), r.MaximumWidth())
		check("height", l.Height(), r.MinimumHeight(), r.MaximumHeight())
		return nil
	})
	return out
}

// WalkFunc is called for every node visited by [Grid.Walk]. Returning an
// error stops the walk.
type WalkFunc func(loc Location, n Node) error

// Walk visits every node depth-first, parents before children, starting at
// the root.
func (g *Grid) Walk(fn WalkFunc) error {
	return walk(g.root, Location{}, fn)
}

func walk(n Node, loc Location, fn WalkFunc) error {
	if err := fn(slices.Clip(loc), n); err != nil {
		return err
	}
	b, ok := n.(*BranchNode)
	if !ok {
		return nil
	}
	for i := 0; i < b.Len(); i++ {
		if err := walk(b.Child(i), append(loc.Clone(), i), fn); err != nil {
			return err
		}
	}
	return nil
}
