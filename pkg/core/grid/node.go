package grid

import (
	"math"
	"slices"

	"github.com/matzehuels/splitgrid/pkg/core/splitview"
)

// Region is the unit placed into a leaf. Regions are supplied by the caller
// and never created by the grid, except through a [Factory] during
// [Deserialize].
//
// Constraints may change between calls and are polled on every layout pass.
// Layout receives the final rectangle size. Regions are serialized with
// encoding/json, so they should marshal to a payload their Factory accepts.
type Region interface {
	ID() string
	MinimumWidth() float64
	MaximumWidth() float64
	MinimumHeight() float64
	MaximumHeight() float64
	Priority() splitview.Priority
	Snap() bool
	Layout(width, height float64)
}

// Node is a [LeafNode] or a [BranchNode].
type Node interface {
	splitview.View

	// Parent returns the owning branch, or nil for the root.
	Parent() *BranchNode
	// Index returns the position within the parent.
	Index() int
	Width() float64
	Height() float64
	// Location walks parent links up to the root.
	Location() Location

	minimumOrthogonalSize() float64
	maximumOrthogonalSize() float64
	setPosition(parent *BranchNode, index int)
}

var (
	_ Node = (*LeafNode)(nil)
	_ Node = (*BranchNode)(nil)
)

func locationOf(n Node) Location {
	var loc Location
	for n.Parent() != nil {
		loc = append(loc, n.Index())
		n = n.Parent()
	}
	slices.Reverse(loc)
	return loc
}

// =============================================================================
// Leaf
// =============================================================================

// LeafNode wraps exactly one [Region]. Its main axis is the axis of its
// parent branch.
type LeafNode struct {
	region Region
	parent *BranchNode
	index  int
}

func newLeaf(region Region, parent *BranchNode) *LeafNode {
	return &LeafNode{region: region, parent: parent}
}

// Region returns the wrapped region.
func (l *LeafNode) Region() Region { return l.region }

func (l *LeafNode) Parent() *BranchNode { return l.parent }
func (l *LeafNode) Index() int          { return l.index }
func (l *LeafNode) Location() Location  { return locationOf(l) }

func (l *LeafNode) setPosition(parent *BranchNode, index int) {
	l.parent, l.index = parent, index
}

func (l *LeafNode) horizontal() bool {
	return l.parent == nil || l.parent.orientation == Horizontal
}

// Width returns the width currently assigned by the parent.
func (l *LeafNode) Width() float64 {
	if l.parent == nil {
		return 0
	}
	if l.horizontal() {
		return l.parent.split.ViewSize(l.index)
	}
	return l.parent.split.OrthogonalSize()
}

// Height returns the height currently assigned by the parent.
func (l *LeafNode) Height() float64 {
	if l.parent == nil {
		return 0
	}
	if l.horizontal() {
		return l.parent.split.OrthogonalSize()
	}
	return l.parent.split.ViewSize(l.index)
}

// Collapsed reports whether the leaf is snapped or collapsed to zero.
func (l *LeafNode) Collapsed() bool {
	return l.parent != nil && l.parent.split.Collapsed(l.index)
}

func (l *LeafNode) MinimumSize() float64 {
	if l.horizontal() {
		return l.region.MinimumWidth()
	}
	return l.region.MinimumHeight()
}

func (l *LeafNode) MaximumSize() float64 {
	if l.horizontal() {
		return l.region.MaximumWidth()
	}
	return l.region.MaximumHeight()
}

func (l *LeafNode) minimumOrthogonalSize() float64 {
	if l.horizontal() {
		return l.region.MinimumHeight()
	}
	return l.region.MinimumWidth()
}

func (l *LeafNode) maximumOrthogonalSize() float64 {
	if l.horizontal() {
		return l.region.MaximumHeight()
	}
	return l.region.MaximumWidth()
}

func (l *LeafNode) Priority() splitview.Priority { return l.region.Priority() }
func (l *LeafNode) Snap() bool                   { return l.region.Snap() }

// Layout projects the main and cross size onto width and height.
func (l *LeafNode) Layout(size, orthogonalSize float64) {
	if l.horizontal() {
		l.region.Layout(size, orthogonalSize)
		return
	}
	l.region.Layout(orthogonalSize, size)
}

// =============================================================================
// Branch
// =============================================================================

// BranchNode arranges its children along its orientation. Children that are
// branches themselves use the orthogonal orientation. The embedded split
// container owns the children and their main-axis sizes.
type BranchNode struct {
	orientation Orientation
	split       *splitview.SplitView
	parent      *BranchNode
	index       int
}

func newBranch(orientation Orientation, parent *BranchNode) *BranchNode {
	return &BranchNode{orientation: orientation, split: splitview.New(), parent: parent}
}

// Orientation returns the axis along which children are arranged.
func (b *BranchNode) Orientation() Orientation { return b.orientation }

func (b *BranchNode) Parent() *BranchNode { return b.parent }
func (b *BranchNode) Index() int          { return b.index }
func (b *BranchNode) Location() Location  { return locationOf(b) }

func (b *BranchNode) setPosition(parent *BranchNode, index int) {
	b.parent, b.index = parent, index
}

// Len returns the number of children.
func (b *BranchNode) Len() int { return b.split.Len() }

// Child returns the child at index. It panics if index is out of range.
func (b *BranchNode) Child(index int) Node { return b.split.View(index).(Node) }

// Children returns the children in order.
func (b *BranchNode) Children() []Node {
	children := make([]Node, b.split.Len())
	for i := range children {
		children[i] = b.Child(i)
	}
	return children
}

// Sizes returns the main-axis sizes of the children.
func (b *BranchNode) Sizes() []float64 { return b.split.Sizes() }

// Size returns the extent along the branch's own axis.
func (b *BranchNode) Size() float64 { return b.split.Size() }

// OrthogonalSize returns the extent across the branch's axis.
func (b *BranchNode) OrthogonalSize() float64 { return b.split.OrthogonalSize() }

func (b *BranchNode) Width() float64 {
	if b.orientation == Horizontal {
		return b.split.Size()
	}
	return b.split.OrthogonalSize()
}

func (b *BranchNode) Height() float64 {
	if b.orientation == Horizontal {
		return b.split.OrthogonalSize()
	}
	return b.split.Size()
}

// reindex refreshes the parent and index back-references of every child.
func (b *BranchNode) reindex() {
	for i := 0; i < b.split.Len(); i++ {
		b.Child(i).setPosition(b, i)
	}
}

// MinimumSize is measured along the parent's axis, which is the branch's
// cross axis: every child must fit, so the largest child minimum wins.
func (b *BranchNode) MinimumSize() float64 {
	var m float64
	for i := 0; i < b.split.Len(); i++ {
		m = math.Max(m, b.Child(i).minimumOrthogonalSize())
	}
	return m
}

func (b *BranchNode) MaximumSize() float64 {
	m := math.Inf(1)
	for i := 0; i < b.split.Len(); i++ {
		m = math.Min(m, b.Child(i).maximumOrthogonalSize())
	}
	return m
}

func (b *BranchNode) minimumOrthogonalSize() float64 { return b.split.MinimumSize() }
func (b *BranchNode) maximumOrthogonalSize() float64 { return b.split.MaximumSize() }

// Priority is High if any child is High, otherwise Low if any child is Low.
func (b *BranchNode) Priority() splitview.Priority {
	p := splitview.PriorityNormal
	for i := 0; i < b.split.Len(); i++ {
		switch b.Child(i).Priority() {
		case splitview.PriorityHigh:
			return splitview.PriorityHigh
		case splitview.PriorityLow:
			p = splitview.PriorityLow
		}
	}
	return p
}

func (b *BranchNode) Snap() bool { return false }

// Layout receives the parent's main and cross size; for the branch these are
// cross and main respectively.
func (b *BranchNode) Layout(size, orthogonalSize float64) {
	b.split.Layout(orthogonalSize, size)
}
