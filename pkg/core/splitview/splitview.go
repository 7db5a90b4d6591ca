package splitview

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrIndexOutOfRange is returned when a view, sash or sizing index does
	// not address an existing position. Nothing is modified.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidSizing is returned for malformed [Sizing] values.
	ErrInvalidSizing = errors.New("invalid sizing")

	// ErrInvalidSize is returned for negative or non-finite view sizes.
	ErrInvalidSize = errors.New("invalid size")

	// ErrEmptySplice is returned by [SplitView.SpliceView] when no items are
	// given. Removing a view must go through [SplitView.RemoveView].
	ErrEmptySplice = errors.New("splice needs at least one item")
)

// epsilon is the tolerance used when comparing accumulated sizes.
const epsilon = 1e-9

type item struct {
	view      View
	size      float64
	collapsed bool
	// cachedSize remembers the size before a collapse.
	cachedSize float64
}

func (it *item) minimumSize() float64 {
	if it.collapsed {
		return 0
	}
	return it.view.MinimumSize()
}

func (it *item) maximumSize() float64 {
	if it.collapsed {
		return 0
	}
	return it.rawMaximumSize()
}

func (it *item) rawMaximumSize() float64 {
	return math.Max(it.view.MaximumSize(), it.view.MinimumSize())
}

// SplitView lays out an ordered list of views along one axis.
//
// The zero value is an empty container of size zero; [New] is equivalent.
type SplitView struct {
	items          []*item
	size           float64
	orthogonalSize float64
	residual       float64
}

// New returns an empty container.
func New() *SplitView {
	return &SplitView{}
}

// NewWithItems builds a container from items verbatim. The container size is
// the sum of the item sizes; collapsed items always have size zero. No layout
// pass is run, so sizes survive exactly as given.
func NewWithItems(items []Item, orthogonalSize float64) *SplitView {
	s := &SplitView{orthogonalSize: orthogonalSize}
	for _, in := range items {
		it := newItem(in)
		s.items = append(s.items, it)
		s.size += it.size
	}
	return s
}

func newItem(in Item) *item {
	it := &item{view: in.View, size: in.Size, collapsed: in.Collapsed}
	if it.collapsed {
		it.size = 0
	}
	return it
}

// =============================================================================
// Accessors
// =============================================================================

// Len returns the number of views.
func (s *SplitView) Len() int { return len(s.items) }

// Size returns the main-axis size of the container.
func (s *SplitView) Size() float64 { return s.size }

// OrthogonalSize returns the cross-axis size shared by every view.
func (s *SplitView) OrthogonalSize() float64 { return s.orthogonalSize }

// Residual returns the amount of space the last layout pass could not assign
// without violating a constraint. Positive values mean the views could not
// grow enough, negative values that they could not shrink enough.
func (s *SplitView) Residual() float64 { return s.residual }

// View returns the view at index. It panics if index is out of range.
func (s *SplitView) View(index int) View { return s.items[index].view }

// ViewSize returns the size of the view at index. It panics if index is out
// of range.
func (s *SplitView) ViewSize(index int) float64 { return s.items[index].size }

// Collapsed reports whether the view at index is collapsed. It panics if
// index is out of range.
func (s *SplitView) Collapsed(index int) bool { return s.items[index].collapsed }

// Sizes returns a copy of all view sizes in order.
func (s *SplitView) Sizes() []float64 {
	sizes := make([]float64, len(s.items))
	for i, it := range s.items {
		sizes[i] = it.size
	}
	return sizes
}

// Items returns a snapshot of the views with their sizes.
func (s *SplitView) Items() []Item {
	items := make([]Item, len(s.items))
	for i, it := range s.items {
		items[i] = Item{View: it.view, Size: it.size, Collapsed: it.collapsed}
	}
	return items
}

// MinimumSize returns the sum of the effective minimum sizes of all views.
func (s *SplitView) MinimumSize() float64 {
	var total float64
	for _, it := range s.items {
		total += it.minimumSize()
	}
	return total
}

// MaximumSize returns the sum of the effective maximum sizes of all views.
func (s *SplitView) MaximumSize() float64 {
	var total float64
	for _, it := range s.items {
		total += it.maximumSize()
	}
	return total
}

// =============================================================================
// Layout
// =============================================================================

// Layout resizes the container and lays out every view in index order.
func (s *SplitView) Layout(size, orthogonalSize float64) {
	s.size = size
	s.orthogonalSize = orthogonalSize
	s.relayout()
	s.layoutViews()
}

// relayout restores the size invariant: rescale when the content no longer
// matches the container, clamp, then hand the clamping error to views with
// slack in priority order.
func (s *SplitView) relayout() {
	s.residual = 0
	if len(s.items) == 0 {
		return
	}
	if !approxEqual(s.contentSize(), s.size) {
		s.rescale(s.openIndexes(), s.size)
	}
	for _, it := range s.items {
		it.size = clamp(it.size, it.minimumSize(), it.maximumSize())
	}
	delta := s.distributeSlack(s.size-s.contentSize(), -1)
	if !approxEqual(delta, 0) {
		s.absorb(delta)
	}
}

func (s *SplitView) layoutViews() {
	for _, it := range s.items {
		it.view.Layout(it.size, s.orthogonalSize)
	}
}

func (s *SplitView) contentSize() float64 {
	var total float64
	for _, it := range s.items {
		total += it.size
	}
	return total
}

func (s *SplitView) openIndexes() []int {
	var idx []int
	for i, it := range s.items {
		if !it.collapsed {
			idx = append(idx, i)
		}
	}
	return idx
}

// rescale scales the views at idx proportionally so they sum to total. Views
// with no size at all share total equally. If every view is collapsed and
// there is space to fill, the last one is reopened.
func (s *SplitView) rescale(idx []int, total float64) {
	if len(idx) == 0 {
		if total <= 0 || len(s.items) == 0 {
			return
		}
		last := s.items[len(s.items)-1]
		last.collapsed = false
		idx = []int{len(s.items) - 1}
	}
	var current float64
	for _, i := range idx {
		current += s.items[i].size
	}
	targets := make([]float64, len(idx))
	for k, i := range idx {
		if current > 0 {
			targets[k] = s.items[i].size * total / current
		} else {
			targets[k] = total / float64(len(idx))
		}
	}
	roundCumulative(targets, total)
	for k, i := range idx {
		s.items[i].size = targets[k]
	}
}

// distributeSlack offers delta to every view except skip, in priority order,
// and returns the part nobody could take.
func (s *SplitView) distributeSlack(delta float64, skip int) float64 {
	if approxEqual(delta, 0) {
		return 0
	}
	for _, i := range s.priorityOrder(delta > 0) {
		if i == skip {
			continue
		}
		it := s.items[i]
		if delta > 0 {
			d := math.Min(it.maximumSize()-it.size, delta)
			if d > 0 {
				it.size += d
				delta -= d
			}
		} else {
			d := math.Min(it.size-it.minimumSize(), -delta)
			if d > 0 {
				it.size -= d
				delta += d
			}
		}
		if approxEqual(delta, 0) {
			return 0
		}
	}
	return delta
}

// absorb assigns space that no view could take within its constraints. Extra
// space goes to the lowest-priority open view; missing space is taken from
// views in shrink order, down to zero.
func (s *SplitView) absorb(delta float64) {
	s.residual = delta
	order := s.priorityOrder(false)
	if delta > 0 {
		target := s.items[order[0]]
		for _, i := range order {
			if !s.items[i].collapsed {
				target = s.items[i]
				break
			}
		}
		target.size += delta
		return
	}
	for _, i := range order {
		it := s.items[i]
		d := math.Min(it.size, -delta)
		it.size -= d
		delta += d
		if approxEqual(delta, 0) {
			return
		}
	}
}

// priorityOrder returns view indexes in the order they are offered space.
// Growing visits High, Normal, Low; shrinking the reverse. Ties are visited
// last index first so the trailing views move before the leading ones.
func (s *SplitView) priorityOrder(grow bool) []int {
	n := len(s.items)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = n - 1 - i
	}
	rank := func(i int) int {
		r := s.items[i].view.Priority().growRank()
		if !grow {
			return -r
		}
		return r
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return rank(a) - rank(b)
	})
	return idx
}

// =============================================================================
// Sash and view resizing
// =============================================================================

// ResizeSash moves the sash between views sash and sash+1 by delta. A positive
// delta grows the view before the sash. Only the two neighbours change and
// only they are laid out. It returns the delta actually applied.
func (s *SplitView) ResizeSash(sash int, delta float64) (float64, error) {
	if sash < 0 || sash >= len(s.items)-1 {
		return 0, fmt.Errorf("%w: sash %d with %d views", ErrIndexOutOfRange, sash, len(s.items))
	}
	if delta == 0 || math.IsNaN(delta) {
		return 0, nil
	}
	if delta > 0 {
		return s.shift(sash, sash+1, delta), nil
	}
	return -s.shift(sash+1, sash, -delta), nil
}

// shift moves up to d units from shrinker to grower and returns the amount
// moved.
func (s *SplitView) shift(grower, shrinker int, d float64) float64 {
	g, k := s.items[grower], s.items[shrinker]

	reopen := g.collapsed
	minGrow := 0.0
	if reopen {
		minGrow = g.view.MinimumSize()
		if d < minGrow {
			return 0
		}
	}

	growRoom := g.rawMaximumSize() - g.size
	if !reopen {
		growRoom = g.maximumSize() - g.size
	}
	d = math.Min(d, growRoom)

	collapse := false
	if shrinkRoom := k.size - k.minimumSize(); d > shrinkRoom {
		if k.view.Snap() && !k.collapsed && k.size > 0 && k.size <= growRoom {
			d = k.size
			collapse = true
		} else {
			d = shrinkRoom
		}
	}
	if d <= 0 || d < minGrow {
		return 0
	}

	if reopen {
		g.collapsed = false
	}
	g.size += d
	k.size -= d
	if collapse {
		k.cachedSize = d
		k.collapsed = true
		k.size = 0
	}

	g.view.Layout(g.size, s.orthogonalSize)
	k.view.Layout(k.size, s.orthogonalSize)
	return d
}

// ResizeView sets the view at index to size, clamped to its constraints.
// The difference is taken from or given to the other views in priority
// order; whatever they cannot absorb stays with the resized view.
func (s *SplitView) ResizeView(index int, size float64) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if size < 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	s.items[index].collapsed = false
	s.resizeItem(index, size)
	s.layoutViews()
	return nil
}

func (s *SplitView) resizeItem(index int, size float64) {
	it := s.items[index]
	desired := clamp(size, it.minimumSize(), it.maximumSize())
	delta := desired - it.size
	rest := s.distributeSlack(-delta, index)
	it.size += delta + rest
}

// DistributeViewSizes gives every open view an equal share of the container
// and then repairs constraint violations.
func (s *SplitView) DistributeViewSizes() {
	idx := s.openIndexes()
	for _, i := range idx {
		s.items[i].size = 0
	}
	s.rescale(idx, s.size)
	s.relayout()
	s.layoutViews()
}

// SetCollapsed collapses or expands the view at index. A collapsed view has
// size zero and its space goes to its siblings; expanding restores the size
// it had before collapsing where the siblings can give it up.
func (s *SplitView) SetCollapsed(index int, collapsed bool) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	it := s.items[index]
	if it.collapsed == collapsed {
		return nil
	}
	if collapsed {
		freed := it.size
		it.cachedSize = freed
		it.collapsed = true
		it.size = 0
		if rest := s.distributeSlack(freed, index); !approxEqual(rest, 0) {
			s.absorb(rest)
		}
	} else {
		it.collapsed = false
		target := it.cachedSize
		if target <= 0 {
			target = math.Max(it.view.MinimumSize(), s.size/float64(len(s.items)))
		}
		s.resizeItem(index, target)
	}
	s.layoutViews()
	return nil
}

// =============================================================================
// Structural edits
// =============================================================================

// AddView inserts view at index and sizes it according to sizing. The whole
// container is laid out afterwards. Index may equal [SplitView.Len] to
// append.
func (s *SplitView) AddView(view View, sizing Sizing, index int) error {
	n := len(s.items)
	if index < 0 || index > n {
		return fmt.Errorf("%w: insert at %d with %d views", ErrIndexOutOfRange, index, n)
	}
	if n > 0 {
		if err := sizing.Validate(n); err != nil {
			return err
		}
	}

	it := &item{view: view}
	if n == 0 {
		it.size = s.size
		s.items = append(s.items, it)
		s.relayout()
		s.layoutViews()
		return nil
	}

	switch sizing.Kind {
	case SizingFixed:
		v := clamp(sizing.Value, view.MinimumSize(), it.rawMaximumSize())
		v = math.Min(v, s.size)
		it.size = v
		s.rescale(s.openIndexes(), s.size-v)
		s.items = slices.Insert(s.items, index, it)

	case SizingAutoFill:
		var used float64
		for _, other := range s.items {
			other.size = other.minimumSize()
			used += other.size
		}
		it.size = math.Max(s.size-used, 0)
		s.items = slices.Insert(s.items, index, it)

	case SizingSplit:
		target := s.items[sizing.Index]
		half := math.Floor(target.size / 2)
		it.size = target.size - half
		target.size = half
		s.items = slices.Insert(s.items, index, it)

	default:
		open := s.openIndexes()
		share := s.size / float64(len(open)+1)
		for _, i := range open {
			if s.items[i].size == 0 {
				s.items[i].size = share
			}
		}
		s.rescale(open, s.size-share)
		it.size = share
		s.items = slices.Insert(s.items, index, it)
		s.rescale(s.openIndexes(), s.size)
	}

	s.relayout()
	s.layoutViews()
	return nil
}

// RemoveView removes the view at index, hands its space to the remaining
// views according to sizing and returns the removed view. [SizingSplit]
// addresses a view by its index after removal.
func (s *SplitView) RemoveView(index int, sizing Sizing) (View, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	n := len(s.items)
	if n > 1 {
		if err := sizing.Validate(n - 1); err != nil {
			return nil, err
		}
	}

	removed := s.items[index]
	s.items = slices.Delete(s.items, index, index+1)
	if len(s.items) == 0 {
		s.residual = 0
		return removed.view, nil
	}

	switch sizing.Kind {
	case SizingAutoFill:
		s.give(max(index-1, 0), removed.size)
	case SizingSplit:
		s.give(sizing.Index, removed.size)
	case SizingDistribute:
		idx := s.openIndexes()
		for _, i := range idx {
			s.items[i].size = 0
		}
		s.rescale(idx, s.size)
	default:
		s.rescale(s.openIndexes(), s.size)
	}

	s.relayout()
	s.layoutViews()
	return removed.view, nil
}

func (s *SplitView) give(index int, size float64) {
	it := s.items[index]
	if it.collapsed && size > 0 {
		it.collapsed = false
	}
	it.size += size
}

// MoveView moves the view at from to index to. Sizes travel with their views
// and nothing is laid out.
func (s *SplitView) MoveView(from, to int) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	it := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, it)
	return nil
}

// ReplaceView swaps the view at index for view, keeping its size and
// collapsed state, and returns the previous view. Nothing is laid out.
func (s *SplitView) ReplaceView(index int, view View) (View, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	old := s.items[index].view
	s.items[index].view = view
	return old, nil
}

// SpliceView replaces the view at index with items. The items keep their
// sizes when they add up to the replaced size and are scaled proportionally
// otherwise. Each spliced view is laid out with the current orthogonal size.
func (s *SplitView) SpliceView(index int, items []Item) (View, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptySplice
	}
	old := s.items[index]
	added := make([]*item, len(items))
	var total float64
	for i, in := range items {
		added[i] = newItem(in)
		total += added[i].size
	}
	if !approxEqual(total, old.size) {
		tmp := &SplitView{items: added}
		tmp.rescale(tmp.openIndexes(), old.size)
	}
	s.items = slices.Replace(s.items, index, index+1, added...)
	for _, it := range added {
		it.view.Layout(it.size, s.orthogonalSize)
	}
	return old.view, nil
}

func (s *SplitView) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: index %d with %d views", ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// roundCumulative rounds values to whole units so that they still sum to
// total. Each value becomes the difference between consecutive floored
// prefix sums; the last takes whatever is left.
func roundCumulative(values []float64, total float64) {
	var cum, prev float64
	for i := range values {
		if i == len(values)-1 {
			values[i] = total - prev
			return
		}
		cum += values[i]
		r := math.Floor(cum + epsilon)
		values[i] = r - prev
		prev = r
	}
}
