// Package workspace applies grid operations to stored documents.
//
// A [Runner] is shared by the CLI, the TUI and the HTTP server. It loads a
// document from a [store.Store], rebuilds the grid, applies a batch of [Op]
// values and persists the result. A batch is atomic: if any operation fails
// nothing is written. Batches against the same document are serialized;
// different documents proceed in parallel.
//
//	r := workspace.NewRunner(st, c, nil, logger)
//	res, err := r.Apply(ctx, docID, workspace.Op{
//	    Kind:      workspace.OpSplit,
//	    Region:    "editor",
//	    Direction: &dir,
//	    Pane:      &pane.Spec{ID: "logs"},
//	})
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitgrid/pkg/cache"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/observability"
	"github.com/matzehuels/splitgrid/pkg/store"
)

// Runner applies operations to documents in a store.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// the default keyer and a nil logger uses the default logger.
func NewRunner(s store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  s,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Close releases the store and the cache.
func (r *Runner) Close() error {
	return errors.Join(r.Store.Close(), r.Cache.Close())
}

// Result reports the state of a document after a batch.
type Result struct {
	Document   *document.Document `json:"document"`
	Boxes      []grid.Box         `json:"boxes"`
	Violations []grid.Violation   `json:"violations,omitempty"`
	Duration   time.Duration      `json:"duration"`
}

func (r *Runner) lock(id string) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Create stores a new empty document.
func (r *Runner) Create(ctx context.Context, name string, orientation grid.Orientation, width, height float64) (*document.Document, error) {
	doc, err := document.New(name, orientation, width, height)
	if err != nil {
		return nil, err
	}
	if err := r.Store.Put(ctx, doc); err != nil {
		return nil, err
	}
	r.Logger.Info("created document", "id", doc.ID, "name", name, "orientation", orientation, "width", width, "height", height)
	return doc, nil
}

// Resolve finds a document by ID, or failing that by unique name.
func (r *Runner) Resolve(ctx context.Context, ref string) (*document.Document, error) {
	doc, err := r.Store.Get(ctx, ref)
	if err == nil || !errs.IsNotFound(err) && !errs.Is(err, errs.ErrCodeInvalidInput) {
		return doc, err
	}
	docs, lerr := r.Store.List(ctx)
	if lerr != nil {
		return nil, lerr
	}
	var match *document.Document
	for _, d := range docs {
		if d.Name != ref {
			continue
		}
		if match != nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "name %q matches several documents; use an id", ref)
		}
		match = d
	}
	if match == nil {
		return nil, errs.New(errs.ErrCodeDocumentNotFound, "document %q not found", ref)
	}
	return match, nil
}

// Load resolves ref and rebuilds its grid at the stored size.
func (r *Runner) Load(ctx context.Context, ref string) (*document.Document, *grid.Grid, error) {
	doc, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	g, err := doc.Build(0, 0, r.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s: %w", doc.ID, err)
	}
	return doc, g, nil
}

// Apply runs ops in order against the document and persists the result.
func (r *Runner) Apply(ctx context.Context, ref string, ops ...Op) (*Result, error) {
	start := time.Now()
	doc, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	unlock := r.lock(doc.ID)
	defer unlock()

	// Reload under the lock so concurrent batches see each other's writes.
	doc, g, err := r.Load(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	hooks := observability.Grid()
	for i, op := range ops {
		opStart := time.Now()
		hooks.OnMutationStart(ctx, op.Kind, doc.ID)
		err := op.Apply(g)
		hooks.OnMutationComplete(ctx, op.Kind, doc.ID, time.Since(opStart), err)
		if err != nil {
			r.Logger.Warn("operation failed", "doc", doc.ID, "op", op.String(), "index", i, "error", err)
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
		r.Logger.Debug("applied operation", "doc", doc.ID, "op", op.String(), "duration", time.Since(opStart))
	}

	if err := doc.Capture(g); err != nil {
		return nil, err
	}
	if err := r.Store.Put(ctx, doc); err != nil {
		return nil, err
	}

	res := r.result(ctx, doc, g)
	res.Duration = time.Since(start)
	r.Logger.Info("updated document",
		"id", doc.ID,
		"ops", len(ops),
		"regions", g.Len(),
		"violations", len(res.Violations),
		"duration", res.Duration)
	return res, nil
}

// Save replaces the layout of doc with the state of g. It serves editors that
// mutate a grid directly instead of sending operations.
func (r *Runner) Save(ctx context.Context, doc *document.Document, g *grid.Grid) error {
	unlock := r.lock(doc.ID)
	defer unlock()
	if err := doc.Capture(g); err != nil {
		return err
	}
	if err := r.Store.Put(ctx, doc); err != nil {
		return err
	}
	r.Logger.Info("saved document", "id", doc.ID, "regions", g.Len())
	return nil
}

// Put stores a complete document, replacing any stored version with the same
// ID. The layout must rebuild cleanly. It holds the document lock so imports
// never interleave with a running Apply.
func (r *Runner) Put(ctx context.Context, doc *document.Document) error {
	if _, err := doc.Build(0, 0, nil); err != nil {
		return err
	}
	unlock := r.lock(doc.ID)
	defer unlock()
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if err := r.Store.Put(ctx, doc); err != nil {
		return err
	}
	r.Logger.Info("stored document", "id", doc.ID)
	return nil
}

// Inspect returns the current state of a document without modifying it.
func (r *Runner) Inspect(ctx context.Context, ref string) (*Result, error) {
	start := time.Now()
	doc, g, err := r.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	res := r.result(ctx, doc, g)
	res.Duration = time.Since(start)
	return res, nil
}

func (r *Runner) result(ctx context.Context, doc *document.Document, g *grid.Grid) *Result {
	hooks := observability.Grid()
	hooks.OnLayout(ctx, doc.ID, g.Len(), g.Width(), g.Height())
	violations := g.Violations()
	for _, v := range violations {
		hooks.OnViolation(ctx, doc.ID, v.ID, v.Reason)
	}
	return &Result{Document: doc, Boxes: g.Boxes(), Violations: violations}
}

// Delete removes a document.
func (r *Runner) Delete(ctx context.Context, ref string) error {
	doc, err := r.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	unlock := r.lock(doc.ID)
	defer unlock()
	if err := r.Store.Delete(ctx, doc.ID); err != nil {
		return err
	}
	r.Logger.Info("deleted document", "id", doc.ID)
	return nil
}

// Locate returns the location of a region inside a document.
func (r *Runner) Locate(ctx context.Context, ref, regionID string) (grid.Location, error) {
	_, g, err := r.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return g.LocationOf(regionID)
}
