package grid

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

const (
	nodeTypeBranch = "branch"
	nodeTypeLeaf   = "leaf"
)

// SerializedNode is the wire form of a node. Size is the extent along the
// parent's axis; for the root it is the extent across the root's axis.
//
// On the wire "data" holds the children of a branch or the opaque payload of
// a leaf:
//
//	{"type":"branch","size":600,"orientation":"vertical","data":[...]}
//	{"type":"leaf","size":300,"data":{...}}
type SerializedNode struct {
	Type        string
	Size        float64
	Orientation Orientation      // branches only
	Children    []SerializedNode // branches only
	Data        json.RawMessage  // leaves only
	Collapsed   bool
}

type serializedNodeJSON struct {
	Type        string          `json:"type"`
	Size        float64         `json:"size"`
	Orientation *Orientation    `json:"orientation,omitempty"`
	Data        json.RawMessage `json:"data"`
	Collapsed   bool            `json:"collapsed,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (n SerializedNode) MarshalJSON() ([]byte, error) {
	out := serializedNodeJSON{Type: n.Type, Size: n.Size, Collapsed: n.Collapsed}
	switch n.Type {
	case nodeTypeBranch:
		o := n.Orientation
		out.Orientation = &o
		children := n.Children
		if children == nil {
			children = []SerializedNode{}
		}
		data, err := json.Marshal(children)
		if err != nil {
			return nil, err
		}
		out.Data = data
	default:
		out.Data = n.Data
		if len(out.Data) == 0 {
			out.Data = json.RawMessage("null")
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (n *SerializedNode) UnmarshalJSON(b []byte) error {
	var in serializedNodeJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*n = SerializedNode{Type: in.Type, Size: in.Size, Collapsed: in.Collapsed}
	switch in.Type {
	case nodeTypeBranch:
		if in.Orientation == nil {
			return fmt.Errorf("branch without orientation")
		}
		n.Orientation = *in.Orientation
		if len(in.Data) > 0 && string(in.Data) != "null" {
			if err := json.Unmarshal(in.Data, &n.Children); err != nil {
				return fmt.Errorf("branch children: %w", err)
			}
		}
	case nodeTypeLeaf:
		n.Data = in.Data
	default:
		return fmt.Errorf("unknown node type %q", in.Type)
	}
	return nil
}

// Description is a complete serialized grid.
type Description struct {
	Root        SerializedNode `json:"root"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Orientation Orientation    `json:"orientation"`
}

// Factory rebuilds a region from its serialized payload.
type Factory func(data json.RawMessage) (Region, error)

// Serialize captures the tree with its current sizes. Region payloads are
// produced with encoding/json.
func (g *Grid) Serialize() (Description, error) {
	root, err := serializeBranch(g.root, g.root.split.OrthogonalSize(), false)
	if err != nil {
		return Description{}, err
	}
	return Description{
		Root:        root,
		Width:       g.width,
		Height:      g.height,
		Orientation: g.root.orientation,
	}, nil
}

func serializeBranch(b *BranchNode, size float64, collapsed bool) (SerializedNode, error) {
	out := SerializedNode{
		Type:        nodeTypeBranch,
		Size:        size,
		Orientation: b.orientation,
		Children:    make([]SerializedNode, 0, b.Len()),
		Collapsed:   collapsed,
	}
	for i := 0; i < b.Len(); i++ {
		size, collapsed := b.split.ViewSize(i), b.split.Collapsed(i)
		var (
			child SerializedNode
			err   error
		)
		switch n := b.Child(i).(type) {
		case *BranchNode:
			child, err = serializeBranch(n, size, collapsed)
		case *LeafNode:
			child, err = serializeLeaf(n, size, collapsed)
		}
		if err != nil {
			return SerializedNode{}, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

func serializeLeaf(l *LeafNode, size float64, collapsed bool) (SerializedNode, error) {
	data, err := json.Marshal(l.region)
	if err != nil {
		return SerializedNode{}, errs.Wrap(errs.ErrCodeInvalidRegion, err, "serialize region %q", l.region.ID())
	}
	return SerializedNode{Type: nodeTypeLeaf, Size: size, Data: data, Collapsed: collapsed}, nil
}

// Deserialize rebuilds a grid from desc, creating regions through factory,
// and lays it out at width x height. Sizes are restored verbatim and then
// rescaled proportionally when the dimensions differ from desc.
//
// A leaf root is wrapped in a branch of desc.Orientation. Nested branches must
// alternate orientation and hold at least two children, and region IDs must
// be unique. Nothing is returned on failure.
func Deserialize(desc Description, width, height float64, factory Factory, opts ...Option) (*Grid, error) {
	if factory == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "nil region factory")
	}
	if err := errs.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errs.ValidateDimension("height", height); err != nil {
		return nil, err
	}

	root := desc.Root
	switch root.Type {
	case nodeTypeLeaf:
		ortho := desc.Height
		if desc.Orientation == Vertical {
			ortho = desc.Width
		}
		root = SerializedNode{
			Type:        nodeTypeBranch,
			Size:        ortho,
			Orientation: desc.Orientation,
			Children:    []SerializedNode{root},
		}
	case nodeTypeBranch:
		if root.Orientation != desc.Orientation {
			return nil, errs.New(errs.ErrCodeInvalidDescription,
				"root orientation %s does not match description orientation %s", root.Orientation, desc.Orientation)
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidDescription, "unknown root type %q", root.Type)
	}

	g := New(root.Orientation, opts...)
	d := &deserializer{factory: factory, leaves: g.leaves}
	b, err := d.branch(root, nil, root.Orientation, Location{})
	if err != nil {
		return nil, err
	}
	g.root = b
	g.normalizeRoot()
	g.Layout(width, height)
	return g, nil
}

type deserializer struct {
	factory Factory
	leaves  map[string]*LeafNode
}

func (d *deserializer) branch(sn SerializedNode, parent *BranchNode, want Orientation, loc Location) (*BranchNode, error) {
	if sn.Orientation != want {
		return nil, errs.New(errs.ErrCodeInvalidDescription,
			"branch at %v has orientation %s, want %s", loc, sn.Orientation, want)
	}
	if parent != nil && len(sn.Children) < 2 {
		return nil, errs.New(errs.ErrCodeInvalidDescription,
			"branch at %v has %d children, nested branches need at least 2", loc, len(sn.Children))
	}
	if err := checkSize(sn.Size, loc); err != nil {
		return nil, err
	}

	b := newBranch(sn.Orientation, parent)
	items := make([]splitview.Item, 0, len(sn.Children))
	for i, child := range sn.Children {
		childLoc := append(loc.Clone(), i)
		if err := checkSize(child.Size, childLoc); err != nil {
			return nil, err
		}
		var n Node
		switch child.Type {
		case nodeTypeBranch:
			cb, err := d.branch(child, b, want.Orthogonal(), childLoc)
			if err != nil {
				return nil, err
			}
			n = cb
		case nodeTypeLeaf:
			l, err := d.leaf(child, b, childLoc)
			if err != nil {
				return nil, err
			}
			n = l
		default:
			return nil, errs.New(errs.ErrCodeInvalidDescription, "node at %v has unknown type %q", childLoc, child.Type)
		}
		n.setPosition(b, i)
		items = append(items, splitview.Item{View: n, Size: child.Size, Collapsed: child.Collapsed})
	}
	b.split = splitview.NewWithItems(items, sn.Size)
	return b, nil
}

func (d *deserializer) leaf(sn SerializedNode, parent *BranchNode, loc Location) (*LeafNode, error) {
	region, err := d.factory(sn.Data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDescription, err, "region at %v", loc)
	}
	if region == nil {
		return nil, errs.New(errs.ErrCodeInvalidDescription, "factory returned no region at %v", loc)
	}
	if err := errs.ValidateRegionID(region.ID()); err != nil {
		return nil, err
	}
	if _, dup := d.leaves[region.ID()]; dup {
		return nil, errs.New(errs.ErrCodeDuplicateRegion, "region %q appears twice (at %v)", region.ID(), loc)
	}
	l := newLeaf(region, parent)
	d.leaves[region.ID()] = l
	return l, nil
}

func checkSize(size float64, loc Location) error {
	if size < 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return errs.New(errs.ErrCodeInvalidDescription, "node at %v has invalid size %v", loc, size)
	}
	return nil
}
