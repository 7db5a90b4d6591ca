package splitview

import (
	"fmt"
	"strings"
)

// Priority governs which views yield space first when a container shrinks and
// which views receive space first when it grows.
type Priority int

const (
	// PriorityNormal is the default priority.
	PriorityNormal Priority = iota
	// PriorityLow views shrink first and grow last.
	PriorityLow
	// PriorityHigh views grow first and shrink last.
	PriorityHigh
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// ParsePriority parses "low", "normal" or "high" (case-insensitive).
// The empty string parses as [PriorityNormal].
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return PriorityNormal, nil
	case "low":
		return PriorityLow, nil
	case "high":
		return PriorityHigh, nil
	}
	return PriorityNormal, fmt.Errorf("unknown priority %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// growRank orders priorities for growing: High, Normal, Low.
func (p Priority) growRank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// View is a child of a [SplitView].
//
// MinimumSize and MaximumSize describe the main axis of the owning container
// and may change between calls. A view reporting a minimum above its maximum
// is treated as if its maximum equalled its minimum.
type View interface {
	MinimumSize() float64
	MaximumSize() float64
	Priority() Priority
	// Snap reports whether the view may collapse to zero instead of
	// stopping at its minimum during a sash drag.
	Snap() bool
	// Layout receives the final main-axis and cross-axis size.
	Layout(size, orthogonalSize float64)
}

// Item describes a view together with its size, used to build or splice a
// container verbatim.
type Item struct {
	View      View
	Size      float64
	Collapsed bool
}
