// Package splitview sizes an ordered list of views along a single axis.
//
// # Overview
//
// A [SplitView] owns the main-axis sizes of its children. Every child is a
// [View]: something that reports a minimum and maximum size, a growth
// [Priority], whether it may [View.Snap] to zero, and that accepts the final
// (size, orthogonalSize) pair through [View.Layout]. The container never
// caches constraints across passes; MinimumSize and MaximumSize are polled
// every time they matter, so views whose limits depend on sibling state just
// work.
//
// # Layout
//
// [SplitView.Layout] resizes the whole container. Children are first scaled
// proportionally to their current share, then clamped to their constraints,
// then the clamping error is handed back to children that still have slack in
// priority order: High priority views grow first and shrink last, Low
// priority views shrink first and grow last. When constraints cannot be met
// the remainder lands on the lowest-priority child and is reported by
// [SplitView.Residual]. The sum of child sizes always equals the container
// size afterwards.
//
// Sizes are rounded to whole units with a cumulative floor, so three children
// sharing 400 units come out as 133, 133 and 134.
//
// # Sashes
//
// [SplitView.ResizeSash] moves the boundary between two neighbours. Only
// those two children change; the delta is reduced symmetrically when either
// side hits a limit. A child that snaps collapses to exactly zero when pushed
// past its minimum, and reopens once dragged open by at least that minimum.
//
// # Structural edits
//
// [SplitView.AddView] and [SplitView.RemoveView] take a [Sizing] that decides
// where the needed or freed space comes from:
//
//   - [Fixed]: the new view gets a fixed size, taken proportionally from the rest
//   - [Distribute]: every view ends up with an equal share
//   - [AutoFill]: siblings shrink to their minimum and the new view takes the rest
//   - [Split]: the space is split with (or returned to) one specific sibling
//
// [SplitView.MoveView] is a pure reorder and never resizes anything.
//
// # Errors
//
// Out-of-range indices are rejected with [ErrIndexOutOfRange] before anything
// is modified. Unsatisfiable constraints are never an error.
//
// # Concurrency
//
// A SplitView is not safe for concurrent use.
package splitview
