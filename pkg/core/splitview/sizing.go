package splitview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SizingKind selects how space is apportioned on insert and removal.
type SizingKind int

const (
	// SizingDistribute gives every view an equal share on insert and
	// removal.
	SizingDistribute SizingKind = iota
	// SizingFixed inserts a view with a fixed size. On removal the freed
	// space is shared proportionally.
	SizingFixed
	// SizingAutoFill shrinks siblings to their minimum and gives the rest to
	// the new view. On removal the freed space goes to the previous sibling.
	SizingAutoFill
	// SizingSplit splits one sibling in half, or returns freed space to it.
	SizingSplit
)

// Sizing is a tagged union over the sizing modes. The zero value is
// [Distribute].
type Sizing struct {
	Kind  SizingKind
	Value float64 // size for SizingFixed
	Index int     // sibling for SizingSplit
}

var (
	// Distribute is the equal-share sizing mode.
	Distribute = Sizing{Kind: SizingDistribute}
	// AutoFill is the take-the-rest sizing mode.
	AutoFill = Sizing{Kind: SizingAutoFill}
)

// Fixed returns a sizing that grants exactly size (clamped to the view's
// constraints and the container size).
func Fixed(size float64) Sizing {
	return Sizing{Kind: SizingFixed, Value: size}
}

// Split returns a sizing that shares space with the sibling at index.
func Split(index int) Sizing {
	return Sizing{Kind: SizingSplit, Index: index}
}

// String renders the sizing as "distribute", "autofill", "fixed:N" or
// "split:N". The result is accepted by [ParseSizing].
func (s Sizing) String() string {
	switch s.Kind {
	case SizingFixed:
		return "fixed:" + strconv.FormatFloat(s.Value, 'f', -1, 64)
	case SizingAutoFill:
		return "autofill"
	case SizingSplit:
		return "split:" + strconv.Itoa(s.Index)
	default:
		return "distribute"
	}
}

// ParseSizing parses the textual form produced by [Sizing.String]. A bare
// number is read as a fixed size and "auto" is accepted for autofill.
func ParseSizing(text string) (Sizing, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "", "distribute":
		return Distribute, nil
	case "auto", "autofill":
		return AutoFill, nil
	}
	kind, arg, found := strings.Cut(text, ":")
	if !found {
		arg, kind = kind, "fixed"
	}
	switch kind {
	case "fixed":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Sizing{}, fmt.Errorf("invalid fixed size %q", arg)
		}
		return Fixed(v), nil
	case "split":
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 {
			return Sizing{}, fmt.Errorf("invalid split index %q", arg)
		}
		return Split(i), nil
	}
	return Sizing{}, fmt.Errorf("unknown sizing %q", text)
}

// MarshalText implements [encoding.TextMarshaler].
func (s Sizing) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Sizing) UnmarshalText(text []byte) error {
	v, err := ParseSizing(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Validate checks the sizing against a container holding n views. A split
// index must address one of them.
func (s Sizing) Validate(n int) error {
	switch s.Kind {
	case SizingDistribute, SizingAutoFill:
		return nil
	case SizingFixed:
		if s.Value < 0 || math.IsNaN(s.Value) {
			return fmt.Errorf("%w: fixed size %v", ErrInvalidSizing, s.Value)
		}
		return nil
	case SizingSplit:
		if s.Index < 0 || s.Index >= n {
			return fmt.Errorf("%w: split index %d with %d views", ErrIndexOutOfRange, s.Index, n)
		}
		return nil
	}
	return fmt.Errorf("%w: kind %d", ErrInvalidSizing, s.Kind)
}
