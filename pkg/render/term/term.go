// Package term draws a laid-out grid as box-drawing characters.
//
// One grid unit maps to one terminal cell. Each region becomes a bordered
// box with its title on the top edge; the selected region is drawn with a
// double border. Regions narrower or shorter than two cells are shaded
// instead of boxed, and collapsed regions are not drawn at all.
//
//	┌editor──┐┌logs────┐
//	│        ││        │
//	└────────┘└────────┘
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
)

// Options configures [Render].
type Options struct {
	// Selected is the ID of the region drawn with a double border.
	Selected string

	// Color styles borders and titles with ANSI colors.
	Color bool
}

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellBorder
	cellSelected
	cellTitle
)

var (
	styleBorder   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	styleTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
)

type borderSet struct {
	tl, tr, bl, br, h, v rune
}

var (
	singleBorder = borderSet{'┌', '┐', '└', '┘', '─', '│'}
	doubleBorder = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
)

const shade = '░'

type canvas struct {
	cols, rows int
	cells      [][]rune
	kinds      [][]cellKind
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.cells = make([][]rune, rows)
	c.kinds = make([][]cellKind, rows)
	for y := range rows {
		c.cells[y] = []rune(strings.Repeat(" ", cols))
		c.kinds[y] = make([]cellKind, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = r
	c.kinds[y][x] = k
}

// Render draws g at its current size.
func Render(g *grid.Grid, opts Options) string {
	c := newCanvas(cells(g.Width()), cells(g.Height()))
	for _, b := range g.Boxes() {
		title := b.ID
		if r, ok := g.RegionByID(b.ID); ok {
			if t, ok := r.(interface{ Title() string }); ok {
				title = t.Title()
			}
		}
		drawBox(c, b, title, b.ID == opts.Selected)
	}
	return c.String(opts.Color)
}

func cells(v float64) int {
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}

func drawBox(c *canvas, b grid.Box, title string, selected bool) {
	x0, y0 := cells(b.X), cells(b.Y)
	x1, y1 := cells(b.X+b.Width), cells(b.Y+b.Height)
	w, h := x1-x0, y1-y0
	if w < 1 || h < 1 {
		return
	}

	kind, set := cellBorder, singleBorder
	if selected {
		kind, set = cellSelected, doubleBorder
	}

	if w < 2 || h < 2 {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c.set(x, y, shade, kind)
			}
		}
		return
	}

	for x := x0 + 1; x < x1-1; x++ {
		c.set(x, y0, set.h, kind)
		c.set(x, y1-1, set.h, kind)
	}
	for y := y0 + 1; y < y1-1; y++ {
		c.set(x0, y, set.v, kind)
		c.set(x1-1, y, set.v, kind)
	}
	c.set(x0, y0, set.tl, kind)
	c.set(x1-1, y0, set.tr, kind)
	c.set(x0, y1-1, set.bl, kind)
	c.set(x1-1, y1-1, set.br, kind)

	for i, r := range []rune(title) {
		if i >= w-2 {
			break
		}
		c.set(x0+1+i, y0, r, cellTitle)
	}
}

// String joins the rows. With color, runs of equally styled cells are
// rendered through lipgloss.
func (c *canvas) String(color bool) string {
	lines := make([]string, c.rows)
	for y := range c.rows {
		if !color {
			lines[y] = string(c.cells[y])
			continue
		}
		var sb strings.Builder
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			sb.WriteString(styled(c.kinds[y][start], string(c.cells[y][start:x])))
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func styled(k cellKind, s string) string {
	switch k {
	case cellBorder:
		return styleBorder.Render(s)
	case cellSelected:
		return styleSelected.Render(s)
	case cellTitle:
		return styleTitle.Render(s)
	}
	return s
}
