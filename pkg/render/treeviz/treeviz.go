// Package treeviz draws the branch/leaf structure of a grid with Graphviz.
//
// Branches appear as ellipses labeled with their orientation and location;
// regions appear as boxes labeled with their ID. Edges carry the child's size
// along the branch axis, so the diagram doubles as a sizing report:
//
//	dot := treeviz.ToDOT(g, treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(dot)
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/render"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed adds rectangle sizes and constraints to region labels.
	Detailed bool
}

// ToDOT converts the tree of g to Graphviz DOT.
func ToDOT(g *grid.Grid, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11, fontcolor=gray40];\n")
	buf.WriteString("\n")

	var edges []string
	_ = g.Walk(func(loc grid.Location, n grid.Node) error {
		id := nodeID(n)
		switch n := n.(type) {
		case *grid.BranchNode:
			fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", id, branchLabel(n, loc))
			for i, child := range n.Children() {
				edges = append(edges, fmt.Sprintf("  %q -> %q [label=%q%s];\n",
					id, nodeID(child), fmtSize(n.Sizes()[i]), collapsedAttr(child)))
			}
		case *grid.LeafNode:
			fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(leafAttrs(n, opts.Detailed), ", "))
		}
		return nil
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n grid.Node) string {
	if l, ok := n.(*grid.LeafNode); ok {
		return "region:" + l.Region().ID()
	}
	return "branch:" + n.Location().String()
}

func branchLabel(b *grid.BranchNode, loc grid.Location) string {
	return b.Orientation().String() + "\n" + loc.String()
}

func leafAttrs(l *grid.LeafNode, detailed bool) []string {
	r := l.Region()
	label := r.ID()
	if t, ok := r.(interface{ Title() string }); ok && t.Title() != r.ID() {
		label = t.Title() + "\n(" + r.ID() + ")"
	}
	if detailed {
		label += fmt.Sprintf("\n%s x %s", fmtSize(l.Width()), fmtSize(l.Height()))
		label += fmt.Sprintf("\nw %s..%s", fmtSize(r.MinimumWidth()), fmtSize(r.MaximumWidth()))
		label += fmt.Sprintf("\nh %s..%s", fmtSize(r.MinimumHeight()), fmtSize(r.MaximumHeight()))
		label += "\n" + r.Priority().String()
	}

	attrs := []string{"shape=box", fmt.Sprintf("label=%q", label)}
	if l.Collapsed() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	} else {
		attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=white")
	}
	return attrs
}

func collapsedAttr(n grid.Node) string {
	if l, ok := n.(*grid.LeafNode); ok && l.Collapsed() {
		return ", style=dashed"
	}
	return ""
}

func fmtSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT to SVG with Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders DOT to PNG through SVG. Requires rsvg-convert.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders DOT to PDF through SVG. Requires rsvg-convert.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from a
// zero origin regardless of the padding Graphviz chose.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
