package grid

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// Grid is a tree of split containers realizing a two-dimensional layout.
//
// The root is always a [BranchNode]. It holds a single leaf when the grid
// contains one region and no children when the grid is empty. Regions are
// indexed by ID so they can be located without a tree walk.
type Grid struct {
	root   *BranchNode
	leaves map[string]*LeafNode
	width  float64
	height float64
	logger *log.Logger
}

// Option configures a [Grid].
type Option func(*Grid)

// WithLogger sets the logger used to report unsatisfiable constraints at
// debug level. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New returns an empty grid whose root arranges children along orientation.
func New(orientation Orientation, opts ...Option) *Grid {
	g := &Grid{
		root:   newBranch(orientation, nil),
		leaves: make(map[string]*LeafNode),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Root returns the root branch.
func (g *Grid) Root() *BranchNode { return g.root }

// Orientation returns the orientation of the root branch.
func (g *Grid) Orientation() Orientation { return g.root.orientation }

// Width returns the width of the last layout pass.
func (g *Grid) Width() float64 { return g.width }

// Height returns the height of the last layout pass.
func (g *Grid) Height() float64 { return g.height }

// Len returns the number of regions in the grid.
func (g *Grid) Len() int { return len(g.leaves) }

// =============================================================================
// Layout
// =============================================================================

// Layout resizes the whole grid. Every branch redistributes its new size
// among its children; unsatisfiable constraints are logged, not returned.
// Negative or non-finite dimensions are ignored.
func (g *Grid) Layout(width, height float64) {
	if errs.ValidateDimension("width", width) != nil || errs.ValidateDimension("height", height) != nil {
		g.logger.Debug("layout ignored", "width", width, "height", height)
		return
	}
	g.width, g.height = width, height
	g.layoutRoot()
	g.logResiduals(g.root, nil)
}

func (g *Grid) layoutRoot() {
	if g.root.orientation == Horizontal {
		g.root.split.Layout(g.width, g.height)
		return
	}
	g.root.split.Layout(g.height, g.width)
}

func (g *Grid) logResiduals(b *BranchNode, loc Location) {
	if r := b.split.Residual(); r != 0 {
		g.logger.Debug("constraints unsatisfiable",
			"location", loc.String(),
			"orientation", b.orientation,
			"residual", r)
	}
	for i := 0; i < b.Len(); i++ {
		if child, ok := b.Child(i).(*BranchNode); ok {
			g.logResiduals(child, append(loc.Clone(), i))
		}
	}
}

// =============================================================================
// Lookup
// =============================================================================

// Node returns the node at loc. The empty location is the root.
func (g *Grid) Node(loc Location) (Node, error) {
	var n Node = g.root
	for depth, index := range loc {
		b, ok := n.(*BranchNode)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidLocation,
				"location %v passes through a leaf at depth %d", loc, depth)
		}
		if index < 0 || index >= b.Len() {
			return nil, errs.New(errs.ErrCodeIndexOutOfRange,
				"location %v: index %d out of range at depth %d (%d children)", loc, index, depth, b.Len())
		}
		n = b.Child(index)
	}
	return n, nil
}

func (g *Grid) branch(loc Location) (*BranchNode, error) {
	n, err := g.Node(loc)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*BranchNode)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidLocation, "location %v addresses a leaf, not a branch", loc)
	}
	return b, nil
}

func (g *Grid) leaf(loc Location) (*LeafNode, error) {
	n, err := g.Node(loc)
	if err != nil {
		return nil, err
	}
	l, ok := n.(*LeafNode)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidLocation, "location %v addresses a branch, not a leaf", loc)
	}
	return l, nil
}

// Region returns the region at loc.
func (g *Grid) Region(loc Location) (Region, error) {
	l, err := g.leaf(loc)
	if err != nil {
		return nil, err
	}
	return l.region, nil
}

// RegionByID returns the region with the given ID.
func (g *Grid) RegionByID(id string) (Region, bool) {
	l, ok := g.leaves[id]
	if !ok {
		return nil, false
	}
	return l.region, true
}

// Leaf returns the leaf wrapping the region with the given ID.
func (g *Grid) Leaf(id string) (*LeafNode, bool) {
	l, ok := g.leaves[id]
	return l, ok
}

// Regions returns all regions in depth-first order.
func (g *Grid) Regions() []Region {
	var regions []Region
	_ = g.Walk(func(_ Location, n Node) error {
		if l, ok := n.(*LeafNode); ok {
			regions = append(regions, l.region)
		}
		return nil
	})
	return regions
}

// LocationOf returns the current location of the region with the given ID.
func (g *Grid) LocationOf(id string) (Location, error) {
	l, ok := g.leaves[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeRegionNotFound, "region %q is not in the grid", id)
	}
	return l.Location(), nil
}

// RelativeLocation computes the insert location next to the node at loc in
// direction dir using the current root orientation.
func (g *Grid) RelativeLocation(loc Location, dir Direction) (Location, error) {
	if _, err := g.Node(loc); err != nil {
		return nil, err
	}
	return RelativeLocation(g.root.orientation, loc, dir)
}

// =============================================================================
// Structural edits
// =============================================================================

// AddView inserts region at loc. When the parent path addresses a branch the
// region becomes its child at the last index. When it addresses a leaf, that
// leaf is promoted to a branch of the orthogonal orientation holding the old
// and the new region, ordered by the last index, which must be 0 or 1.
//
// Everything is validated before the tree is touched.
func (g *Grid) AddView(region Region, sizing splitview.Sizing, loc Location) error {
	if region == nil {
		return errs.New(errs.ErrCodeInvalidRegion, "region is nil")
	}
	if err := errs.ValidateRegionID(region.ID()); err != nil {
		return err
	}
	if _, dup := g.leaves[region.ID()]; dup {
		return errs.New(errs.ErrCodeDuplicateRegion, "region %q is already in the grid", region.ID())
	}
	if len(loc) == 0 {
		return errs.New(errs.ErrCodeInvalidLocation, "cannot add a region at the root")
	}
	parentPath, index := loc.tail()
	parent, err := g.Node(parentPath)
	if err != nil {
		return err
	}

	var leaf *LeafNode
	switch p := parent.(type) {
	case *BranchNode:
		if index < 0 || index > p.Len() {
			return errs.New(errs.ErrCodeIndexOutOfRange,
				"location %v: insert index %d out of range (%d children)", loc, index, p.Len())
		}
		if p.Len() > 0 {
			if err := sizing.Validate(p.Len()); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "add region %q", region.ID())
			}
		}
		leaf = newLeaf(region, p)
		if err := p.split.AddView(leaf, sizing, index); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "add region %q", region.ID())
		}
		p.reindex()

	case *LeafNode:
		if index != 0 && index != 1 {
			return errs.New(errs.ErrCodeIndexOutOfRange,
				"location %v: splitting a leaf needs index 0 or 1, got %d", loc, index)
		}
		if sizing.Kind == splitview.SizingSplit {
			sizing = splitview.Split(0)
		}
		if err := sizing.Validate(1); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "add region %q", region.ID())
		}
		leaf = g.promote(p, region, sizing, index)
	}

	g.leaves[region.ID()] = leaf
	g.normalizeRoot()
	return nil
}

// promote replaces leaf with a branch of the orthogonal orientation that
// keeps the leaf's size in its parent and holds the old and the new region.
func (g *Grid) promote(leaf *LeafNode, region Region, sizing splitview.Sizing, index int) *LeafNode {
	grand, pos := leaf.parent, leaf.index
	size := grand.split.ViewSize(pos)

	branch := newBranch(grand.orientation.Orthogonal(), grand)
	branch.index = pos
	_, _ = grand.split.ReplaceView(pos, branch)
	branch.Layout(size, grand.split.OrthogonalSize())

	leaf.setPosition(branch, 0)
	_ = branch.split.AddView(leaf, splitview.Distribute, 0)

	added := newLeaf(region, branch)
	_ = branch.split.AddView(added, sizing, index)
	branch.reindex()
	return added
}

// RemoveView removes the leaf at loc and returns its region. Freed space is
// distributed proportionally among the siblings.
func (g *Grid) RemoveView(loc Location) (Region, error) {
	return g.RemoveViewWithSizing(loc, splitview.Fixed(0))
}

// RemoveViewWithSizing removes the leaf at loc, hands its space to the
// siblings according to sizing and fuses away a parent left with a single
// child. A split index in sizing refers to positions after removal.
func (g *Grid) RemoveViewWithSizing(loc Location, sizing splitview.Sizing) (Region, error) {
	leaf, err := g.leaf(loc)
	if err != nil {
		return nil, err
	}
	parent := leaf.parent
	if n := parent.Len(); n > 1 {
		if err := sizing.Validate(n - 1); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "remove %v", loc)
		}
	}

	if _, err := parent.split.RemoveView(leaf.index, sizing); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "remove %v", loc)
	}
	parent.reindex()
	leaf.setPosition(nil, 0)
	delete(g.leaves, leaf.region.ID())

	g.fuse(parent)
	g.normalizeRoot()
	return leaf.region, nil
}

// fuse removes a non-root branch left with a single child. A leaf child takes
// the branch's place and size in the grandparent. A branch child has the
// grandparent's orientation, so its children are spliced in directly.
func (g *Grid) fuse(b *BranchNode) {
	if b.parent == nil || b.Len() != 1 {
		return
	}
	grand, pos := b.parent, b.index

	switch sole := b.Child(0).(type) {
	case *LeafNode:
		_, _ = grand.split.ReplaceView(pos, sole)
		sole.setPosition(grand, pos)
		sole.Layout(grand.split.ViewSize(pos), grand.split.OrthogonalSize())
	case *BranchNode:
		_, _ = grand.split.SpliceView(pos, sole.split.Items())
	}
	grand.reindex()
	b.setPosition(nil, 0)
}

// normalizeRoot replaces a root holding a single branch with that branch. The
// root orientation flips; sizes carry over unchanged.
func (g *Grid) normalizeRoot() {
	if g.root.Len() != 1 {
		return
	}
	child, ok := g.root.Child(0).(*BranchNode)
	if !ok {
		return
	}
	child.setPosition(nil, 0)
	g.root = child
}

// MoveView reorders the children of the branch at parentLoc. Sizes travel
// with their nodes.
func (g *Grid) MoveView(parentLoc Location, from, to int) error {
	b, err := g.branch(parentLoc)
	if err != nil {
		return err
	}
	if err := b.split.MoveView(from, to); err != nil {
		return errs.Wrap(errs.ErrCodeIndexOutOfRange, err, "move in %v", parentLoc)
	}
	b.reindex()
	return nil
}

// MoveRegion moves the region id next to the region reference in direction
// dir. The target location is computed after removal, so moving a region
// around its own neighbours works as expected.
func (g *Grid) MoveRegion(id, reference string, dir Direction, sizing splitview.Sizing) error {
	src, ok := g.leaves[id]
	if !ok {
		return errs.New(errs.ErrCodeRegionNotFound, "region %q is not in the grid", id)
	}
	if _, ok := g.leaves[reference]; !ok {
		return errs.New(errs.ErrCodeRegionNotFound, "region %q is not in the grid", reference)
	}
	if id == reference {
		return errs.New(errs.ErrCodeInvalidInput, "cannot move region %q relative to itself", id)
	}
	if !dir.valid() {
		return errs.New(errs.ErrCodeInvalidDirection, "unknown direction %d", int(dir))
	}
	if sizing.Kind == splitview.SizingSplit {
		sizing = splitview.Distribute
	}
	// Once the source is removed the insert must not fail, so every sizing
	// is checked here.
	if err := sizing.Validate(0); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "move region %q", id)
	}

	region, err := g.RemoveView(src.Location())
	if err != nil {
		return err
	}
	refLoc, err := g.LocationOf(reference)
	if err != nil {
		return err
	}
	target, err := RelativeLocation(g.root.orientation, refLoc, dir)
	if err != nil {
		return err
	}
	if err := g.AddView(region, sizing, target); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "re-insert region %q at %v", id, target)
	}
	return nil
}

// =============================================================================
// Resizing
// =============================================================================

// ResizeSash drags the sash between children sash and sash+1 of the branch
// at parentLoc and returns the delta actually applied.
func (g *Grid) ResizeSash(parentLoc Location, sash int, delta float64) (float64, error) {
	b, err := g.branch(parentLoc)
	if err != nil {
		return 0, err
	}
	applied, err := b.split.ResizeSash(sash, delta)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeIndexOutOfRange, err, "resize sash in %v", parentLoc)
	}
	return applied, nil
}

// ResizeView sets the main-axis size of the node at loc within its parent.
func (g *Grid) ResizeView(loc Location, size float64) error {
	if err := errs.ValidateDimension("size", size); err != nil {
		return err
	}
	n, err := g.Node(loc)
	if err != nil {
		return err
	}
	if n.Parent() == nil {
		return errs.New(errs.ErrCodeInvalidLocation, "cannot resize the root; use Layout")
	}
	return n.Parent().split.ResizeView(n.Index(), size)
}

// DistributeViewSizes gives every child of the branch at parentLoc an equal
// share.
func (g *Grid) DistributeViewSizes(parentLoc Location) error {
	b, err := g.branch(parentLoc)
	if err != nil {
		return err
	}
	b.split.DistributeViewSizes()
	return nil
}

// SetCollapsed collapses or expands the node at loc within its parent.
func (g *Grid) SetCollapsed(loc Location, collapsed bool) error {
	n, err := g.Node(loc)
	if err != nil {
		return err
	}
	if n.Parent() == nil {
		return errs.New(errs.ErrCodeInvalidLocation, "cannot collapse the root")
	}
	return n.Parent().split.SetCollapsed(n.Index(), collapsed)
}
