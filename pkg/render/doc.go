// Package render turns laid-out grids into human-readable output.
//
// Subpackages:
//   - [term]: box-drawing rendering of region rectangles for terminals
//   - [treeviz]: Graphviz diagrams of the branch/leaf tree
//
// This package holds the format conversions shared by the SVG producers.
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg:
//
//	svg, err := treeviz.RenderSVG(treeviz.ToDOT(g, treeviz.Options{}))
//	png, err := render.ToPNG(svg, 2.0)
package render
