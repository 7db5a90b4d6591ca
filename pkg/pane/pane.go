// Package pane provides the concrete [grid.Region] used by the CLI, the TUI
// and the HTTP server.
//
// A pane is a titled rectangle with size constraints. Its JSON form is the
// [Spec], which is also the payload stored in serialized grid leaves:
//
//	{"id":"editor","title":"Editor","min_width":20,"priority":"high"}
//
// Maximum sizes of zero mean unbounded, since JSON cannot carry infinity.
package pane

import (
	"encoding/json"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// Spec is the serializable description of a pane.
type Spec struct {
	ID        string             `json:"id"`
	Title     string             `json:"title,omitempty"`
	MinWidth  float64            `json:"min_width,omitempty"`
	MaxWidth  float64            `json:"max_width,omitempty"`
	MinHeight float64            `json:"min_height,omitempty"`
	MaxHeight float64            `json:"max_height,omitempty"`
	Priority  splitview.Priority `json:"priority,omitempty"`
	Snap      bool               `json:"snap,omitempty"`
}

// Validate checks identifiers and constraint ranges.
func (s Spec) Validate() error {
	if err := errs.ValidateRegionID(s.ID); err != nil {
		return err
	}
	for _, d := range []struct {
		name     string
		min, max float64
	}{
		{"width", s.MinWidth, s.MaxWidth},
		{"height", s.MinHeight, s.MaxHeight},
	} {
		if err := errs.ValidateDimension("minimum "+d.name, d.min); err != nil {
			return err
		}
		if err := errs.ValidateDimension("maximum "+d.name, d.max); err != nil {
			return err
		}
		if d.max != 0 && d.max < d.min {
			return errs.New(errs.ErrCodeInvalidRegion,
				"pane %q: maximum %s %v below minimum %v", s.ID, d.name, d.max, d.min)
		}
	}
	return nil
}

// Pane is a titled region. It is safe for concurrent use.
type Pane struct {
	mu     sync.RWMutex
	spec   Spec
	width  float64
	height float64
}

// Option configures a pane created with [New].
type Option func(*Spec)

// WithID overrides the generated identifier.
func WithID(id string) Option {
	return func(s *Spec) { s.ID = id }
}

// WithMinimumSize sets the minimum width and height.
func WithMinimumSize(width, height float64) Option {
	return func(s *Spec) { s.MinWidth, s.MinHeight = width, height }
}

// WithMaximumSize sets the maximum width and height. Zero means unbounded.
func WithMaximumSize(width, height float64) Option {
	return func(s *Spec) { s.MaxWidth, s.MaxHeight = width, height }
}

// WithPriority sets the resize priority.
func WithPriority(p splitview.Priority) Option {
	return func(s *Spec) { s.Priority = p }
}

// WithSnap makes the pane collapse when dragged below half its minimum.
func WithSnap(snap bool) Option {
	return func(s *Spec) { s.Snap = snap }
}

// New creates a pane with a random identifier.
func New(title string, opts ...Option) (*Pane, error) {
	spec := Spec{ID: uuid.NewString(), Title: title}
	for _, opt := range opts {
		opt(&spec)
	}
	return FromSpec(spec)
}

// FromSpec creates a pane from a validated spec.
func FromSpec(spec Spec) (*Pane, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Pane{spec: spec}, nil
}

// Factory rebuilds panes from serialized grid leaves.
func Factory(data json.RawMessage) (grid.Region, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRegion, err, "decode pane")
	}
	return FromSpec(spec)
}

// Spec returns a copy of the pane's description.
func (p *Pane) Spec() Spec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec
}

// Update applies fn to the spec and keeps the result if it validates. The
// identifier cannot change.
func (p *Pane) Update(fn func(*Spec)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.spec
	fn(&next)
	next.ID = p.spec.ID
	if err := next.Validate(); err != nil {
		return err
	}
	p.spec = next
	return nil
}

// Title returns the display title, falling back to the identifier.
func (p *Pane) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.spec.Title == "" {
		return p.spec.ID
	}
	return p.spec.Title
}

// Size returns the rectangle from the most recent layout.
func (p *Pane) Size() (width, height float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width, p.height
}

func (p *Pane) ID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec.ID
}

func (p *Pane) MinimumWidth() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec.MinWidth
}

func (p *Pane) MaximumWidth() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return unbounded(p.spec.MaxWidth)
}

func (p *Pane) MinimumHeight() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec.MinHeight
}

func (p *Pane) MaximumHeight() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return unbounded(p.spec.MaxHeight)
}

func (p *Pane) Priority() splitview.Priority {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec.Priority
}

func (p *Pane) Snap() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spec.Snap
}

func (p *Pane) Layout(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
}

// MarshalJSON encodes the pane as its [Spec].
func (p *Pane) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Spec())
}

func unbounded(v float64) float64 {
	if v == 0 {
		return math.Inf(1)
	}
	return v
}

var _ grid.Region = (*Pane)(nil)
