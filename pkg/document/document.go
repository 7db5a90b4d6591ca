// Package document defines the persisted form of a grid layout.
//
// A [Document] wraps a serialized [grid.Description] with an identity and
// timestamps. It is the unit stored by pkg/store, exchanged by the HTTP API
// and written to disk by the CLI:
//
//	{
//	  "id": "5f0c...",
//	  "name": "editor",
//	  "layout": {"root": {...}, "width": 120, "height": 40, "orientation": "horizontal"},
//	  "created_at": "...",
//	  "updated_at": "..."
//	}
//
// Leaves carry [pane.Spec] payloads, so [Build] always rebuilds with
// [pane.Factory].
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/splitgrid/pkg/cache"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/pane"
)

// Document is a named, persisted grid layout.
type Document struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Layout    grid.Description `json:"layout"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New creates an empty document of the given orientation and size.
func New(name string, orientation grid.Orientation, width, height float64) (*Document, error) {
	if err := errs.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errs.ValidateDimension("height", height); err != nil {
		return nil, err
	}
	g := grid.New(orientation)
	g.Layout(width, height)
	desc, err := g.Serialize()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Layout:    desc,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the document identity. The layout is validated by [Build].
func (d *Document) Validate() error {
	return errs.ValidateDocumentID(d.ID)
}

// Build rebuilds the grid at the stored size, or at width x height when both
// are positive.
func (d *Document) Build(width, height float64, logger *log.Logger) (*grid.Grid, error) {
	if width <= 0 || height <= 0 {
		width, height = d.Layout.Width, d.Layout.Height
	}
	var opts []grid.Option
	if logger != nil {
		opts = append(opts, grid.WithLogger(logger))
	}
	return grid.Deserialize(d.Layout, width, height, pane.Factory, opts...)
}

// Capture stores the current state of g and bumps UpdatedAt.
func (d *Document) Capture(g *grid.Grid) error {
	desc, err := g.Serialize()
	if err != nil {
		return err
	}
	d.Layout = desc
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Hash returns a content hash of the layout. Identity and timestamps are
// excluded, so renaming a document keeps its cache entries.
func (d *Document) Hash() (string, error) {
	data, err := json.Marshal(d.Layout)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal encodes d as indented JSON.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document from JSON.
func Unmarshal(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes d as indented JSON to w.
func Write(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a document from r.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode document")
	}
	return &d, nil
}

// WriteFile writes d to path, replacing any existing file.
func WriteFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a document from path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
