package workspace

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/splitgrid/pkg/cache"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/observability"
	"github.com/matzehuels/splitgrid/pkg/render/term"
	"github.com/matzehuels/splitgrid/pkg/render/treeviz"
)

// Render output formats.
const (
	FormatText  = "text"  // box drawing, see pkg/render/term
	FormatBoxes = "boxes" // JSON array of grid.Box
	FormatDOT   = "dot"   // Graphviz tree diagram
	FormatSVG   = "svg"   // tree diagram rendered by Graphviz
)

// Formats lists every supported render format.
var Formats = []string{FormatText, FormatBoxes, FormatDOT, FormatSVG}

// RenderOptions selects what [Runner.Render] produces.
type RenderOptions struct {
	Format string
	// Width and Height relay the document out before rendering. Zero keeps
	// the stored size.
	Width  float64
	Height float64
	// Selected highlights a region in text output.
	Selected string
	Color    bool
	// Detailed adds geometry to tree diagram labels.
	Detailed bool
	// Refresh bypasses cached output.
	Refresh bool
}

// SetDefaults fills an empty format.
func (o *RenderOptions) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatText
	}
}

// Validate checks the format and dimensions.
func (o *RenderOptions) Validate() error {
	o.SetDefaults()
	if !slices.Contains(Formats, o.Format) {
		return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want %s)", o.Format, strings.Join(Formats, ", "))
	}
	if err := errs.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	return errs.ValidateDimension("height", o.Height)
}

func (o RenderOptions) isTree() bool {
	return o.Format == FormatDOT || o.Format == FormatSVG
}

// RenderWithCacheInfo renders doc and reports whether the output came from
// the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *document.Document, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hash, err := doc.Hash()
	if err != nil {
		return nil, false, err
	}

	keyType, key := "render", ""
	if opts.isTree() {
		keyType = "tree"
		key = r.Keyer.TreeKey(hash, cache.TreeKeyOpts{Format: opts.Format, Detailed: opts.Detailed})
	} else {
		key = r.Keyer.RenderKey(hash, cache.RenderKeyOpts{
			Format:   opts.Format,
			Width:    opts.Width,
			Height:   opts.Height,
			Selected: opts.Selected,
			Color:    opts.Color,
		})
	}

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyType)
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, keyType)

	g, _, err := r.LayoutWithCacheInfo(ctx, doc, opts.Width, opts.Height)
	if err != nil {
		return nil, false, err
	}
	data, err := renderGrid(g, opts)
	if err != nil {
		return nil, false, err
	}

	ttl := cache.TTLRender
	if opts.isTree() {
		ttl = cache.TTLTree
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(ttl)); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
	} else {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, doc *document.Document, opts RenderOptions) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return data, err
}

func renderGrid(g *grid.Grid, opts RenderOptions) ([]byte, error) {
	switch opts.Format {
	case FormatBoxes:
		return json.MarshalIndent(g.Boxes(), "", "  ")
	case FormatDOT:
		return []byte(treeviz.ToDOT(g, treeviz.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return treeviz.RenderSVG(treeviz.ToDOT(g, treeviz.Options{Detailed: opts.Detailed}))
	default:
		return []byte(term.Render(g, term.Options{Selected: opts.Selected, Color: opts.Color})), nil
	}
}

// LayoutWithCacheInfo rebuilds doc at width x height, reusing a cached
// description of the relaid-out grid when one exists. Zero dimensions keep
// the stored size.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *document.Document, width, height float64) (*grid.Grid, bool, error) {
	if width <= 0 || height <= 0 {
		width, height = doc.Layout.Width, doc.Layout.Height
	}
	if width == doc.Layout.Width && height == doc.Layout.Height {
		g, err := doc.Build(width, height, r.Logger)
		return g, false, err
	}

	hash, err := doc.Hash()
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{Width: width, Height: height})
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var desc grid.Description
		if json.Unmarshal(data, &desc) == nil {
			cached := *doc
			cached.Layout = desc
			if g, err := cached.Build(width, height, r.Logger); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return g, true, nil
			}
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	g, err := doc.Build(width, height, r.Logger)
	if err != nil {
		return nil, false, err
	}
	desc, err := g.Serialize()
	if err != nil {
		return g, false, nil
	}
	if data, err := json.Marshal(desc); err == nil {
		if r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)) == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return g, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}
