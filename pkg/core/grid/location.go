package grid

import (
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// Location addresses a node by the child indexes on the path from the root.
// The empty location is the root itself. Locations are derived from the
// current tree shape and go stale after structural edits.
type Location []int

// String renders the location as "[0 2 1]".
func (l Location) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseLocation parses a location written as indexes separated by dots,
// commas, slashes or spaces, optionally wrapped in brackets: "0.1",
// "[0 1]", "0/1". The empty string is the root.
func ParseLocation(s string) (Location, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == ',' || r == '/' || r == ' '
	})
	loc := make(Location, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, errs.New(errs.ErrCodeInvalidLocation, "invalid location segment %q", f)
		}
		loc = append(loc, v)
	}
	return loc, nil
}

// Clone returns a copy that does not share storage with l.
func (l Location) Clone() Location {
	return slices.Clone(l)
}

// Equal reports whether two locations address the same position.
func (l Location) Equal(other Location) bool {
	return slices.Equal(l, other)
}

// tail splits a non-empty location into its parent path and last index.
func (l Location) tail() (Location, int) {
	return l[:len(l)-1], l[len(l)-1]
}

// LocationOrientation returns the orientation of the branch that owns the
// last segment of loc, given the root orientation. That branch sits at depth
// len(loc)-1, and orientation alternates with depth.
func LocationOrientation(root Orientation, loc Location) Orientation {
	if len(loc)%2 == 1 {
		return root
	}
	return root.Orthogonal()
}

// RelativeLocation computes where a node inserted next to the node at loc in
// direction dir lands. When dir runs along the owning branch the result is a
// sibling position, otherwise it addresses a split of the node itself.
func RelativeLocation(root Orientation, loc Location, dir Direction) (Location, error) {
	if len(loc) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidLocation, "relative location of the root")
	}
	if !dir.valid() {
		return nil, errs.New(errs.ErrCodeInvalidDirection, "unknown direction %d", int(dir))
	}
	if LocationOrientation(root, loc) == dir.Orientation() {
		rest, index := loc.tail()
		if dir.after() {
			index++
		}
		return append(rest.Clone(), index), nil
	}
	index := 0
	if dir.after() {
		index = 1
	}
	return append(loc.Clone(), index), nil
}
