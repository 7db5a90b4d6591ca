// Package grid composes split containers into a two-dimensional layout tree.
//
// # Overview
//
// A [Grid] is a tree of [BranchNode] and [LeafNode] values. Each branch owns a
// [splitview.SplitView] that sizes its children along the branch's
// [Orientation]; children that are branches use the orthogonal orientation,
// so orientation strictly alternates with depth. Each leaf wraps one
// caller-supplied [Region].
//
//	g := grid.New(grid.Horizontal)
//	g.Layout(800, 600)
//	_ = g.AddView(editor, splitview.Distribute, grid.Location{0})
//	_ = g.AddView(terminal, splitview.Distribute, grid.Location{0, 1})
//
// # Locations
//
// A [Location] lists child indexes from the root. [RelativeLocation] turns a
// reference location and a compass [Direction] into an insert location: a
// sibling position when the direction runs along the owning branch, or a
// split of the node itself when it runs across.
//
// # Promotion and fusion
//
// Adding a region at a location whose parent path ends in a leaf promotes
// that leaf: it is replaced, at the same size, by a branch of the orthogonal
// orientation holding the original and the new region. Removing a region
// fuses away a branch left with a single child, splicing the child into the
// grandparent at the branch's index and size. The tree therefore never keeps
// a non-root branch with fewer than two children. The root is always a
// branch; it keeps a single leaf child when the grid holds one region, and
// a root left with a single branch child is replaced by that child.
//
// # Serialization
//
// [Grid.Serialize] captures the tree with its current sizes as a
// [Description]. [Deserialize] rebuilds it, creating regions through a
// caller-supplied [Factory], and lays it out once at the requested
// dimensions. Restoring at the original dimensions reproduces every size
// exactly.
//
// # Errors
//
// Invalid locations, out-of-range indexes and unknown regions are reported
// with codes from the errors package before anything is modified.
// Unsatisfiable constraints are not errors; see [Grid.Violations].
//
// # Concurrency
//
// A Grid is not safe for concurrent use. Callers serialize access.
package grid
