package grid

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// Orientation is the axis along which a branch arranges its children.
type Orientation int

const (
	// Horizontal branches place children left to right; their main axis is
	// the width.
	Horizontal Orientation = iota
	// Vertical branches place children top to bottom; their main axis is the
	// height.
	Vertical
)

// Orthogonal returns the perpendicular orientation.
func (o Orientation) Orthogonal() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation parses "horizontal" or "vertical" and their one-letter
// abbreviations.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, errs.New(errs.ErrCodeInvalidInput, "unknown orientation %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Direction is a compass direction relative to an existing node.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Orientation returns the axis a direction moves along.
func (d Direction) Orientation() Orientation {
	if d == Up || d == Down {
		return Vertical
	}
	return Horizontal
}

// after reports whether the direction points past the reference node.
func (d Direction) after() bool {
	return d == Right || d == Down
}

func (d Direction) valid() bool {
	return d >= Left && d <= Down
}

// ParseDirection parses a direction name. "top" and "bottom" are accepted as
// aliases for up and down.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "up", "top", "u":
		return Up, nil
	case "down", "bottom", "d":
		return Down, nil
	}
	return Left, errs.New(errs.ErrCodeInvalidDirection, "unknown direction %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
