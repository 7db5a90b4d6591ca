// Package pkg provides the core libraries for Splitgrid, a recursive
// split-view layout engine for rectangular panes.
//
// # Overview
//
// Splitgrid divides a rectangle into regions by nesting one-dimensional split
// views that alternate between horizontal and vertical orientation. The pkg
// directory is organized into three main areas:
//
//  1. [core] - Layout math ([core/splitview]) and the recursive tree ([core/grid])
//  2. Domain - Panes, documents and the workspace that edits them
//  3. Infrastructure - Stores, caches, configuration, hooks and the HTTP server
//
// # Architecture
//
// The typical data flow through Splitgrid:
//
//	Stored document (JSON description + size)
//	         ↓
//	    [document] package (decode, validate, build)
//	         ↓
//	    [core/grid] package (add, remove, move, resize, layout)
//	         ↓
//	    [render/term] or [render/treeviz] (boxes, text, DOT/SVG)
//
// # Quick Start
//
// Build a grid with two panes and lay it out:
//
//	import (
//	    "github.com/matzehuels/splitgrid/pkg/core/grid"
//	    "github.com/matzehuels/splitgrid/pkg/core/splitview"
//	    "github.com/matzehuels/splitgrid/pkg/pane"
//	)
//
//	g := grid.New(grid.Horizontal)
//	editor, _ := pane.New("editor", pane.WithMinimumSize(20, 5))
//	logs, _ := pane.New("logs")
//	_ = g.AddView(editor, splitview.Distribute, grid.Location{0})
//	_ = g.AddView(logs, splitview.Distribute, grid.Location{1})
//	g.Layout(120, 40)
//
//	for _, b := range g.Boxes() {
//	    fmt.Println(b.ID, b.X, b.Y, b.Width, b.Height)
//	}
//
// # Package Organization
//
// [core/splitview] - Sizes items along one axis under minimum, maximum,
// priority and snap constraints.
//
// [core/grid] - Branch/leaf tree addressed by [core/grid.Location], plus the
// JSON description used to serialize and restore it.
//
// [pane] - The concrete region type stored in documents.
//
// [document] - Named, sized grid descriptions and their file format.
//
// [workspace] - Applies edit operations to stored documents and caches
// rendered output.
//
// [store] - Document persistence (memory, file, MongoDB).
//
// [cache] - Rendered output cache (null, file, Redis).
//
// [config] - TOML configuration shared by the CLI and server.
//
// [observability] - Hooks for grid and cache events.
//
// [server] - HTTP API over the workspace.
//
// [render] - Terminal and Graphviz renderers, and SVG conversion.
//
// [errors] - Coded errors with user-facing messages.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/core
// [core/splitview]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/core/splitview
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/core/grid
// [core/grid.Location]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/core/grid#Location
// [pane]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/pane
// [document]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/document
// [workspace]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/workspace
// [store]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/server
// [render]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/render
// [render/term]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/render/term
// [render/treeviz]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/render/treeviz
// [errors]: https://pkg.go.dev/github.com/matzehuels/splitgrid/pkg/errors
package pkg
