package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/render/term"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// statusLines is the number of terminal rows below the grid.
const statusLines = 2

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiCommand creates the "tui" command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui DOC",
		Short: "Edit a layout interactively",
		Long: `Edit a layout interactively. The layout is shown at the size of the
terminal and saved at its stored size.

Keys:
  tab / shift+tab   select next / previous pane
  arrows            drag the nearest sash along the arrow
  s / v             split the selected pane right / down
  x                 close the selected pane
  c                 collapse or expand the selected pane
  =                 give the selected pane and its siblings equal sizes
  w                 save
  q                 quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(cfg config.Config, runner *workspace.Runner) error {
				doc, g, err := runner.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				m := newEditorModel(cmd.Context(), cfg, runner, doc, g)
				final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return err
				}
				if em, ok := final.(editorModel); ok && em.saves > 0 {
					consoleFor(cmd).success("Saved %s", doc.Name)
				}
				return nil
			})
		},
	}
}

// =============================================================================
// editorModel - Interactive grid editor
// =============================================================================

// editorModel is the bubbletea model of the layout editor. The grid is laid
// out at the terminal size while editing.
type editorModel struct {
	ctx    context.Context
	cfg    config.Config
	runner *workspace.Runner
	doc    *document.Document
	grid   *grid.Grid

	// docWidth and docHeight are the stored size restored on save.
	docWidth  float64
	docHeight float64

	selected    int
	status      string
	failed      bool
	dirty       bool
	confirmQuit bool
	saves       int
}

func newEditorModel(ctx context.Context, cfg config.Config, runner *workspace.Runner, doc *document.Document, g *grid.Grid) editorModel {
	return editorModel{
		ctx:       ctx,
		cfg:       cfg,
		runner:    runner,
		doc:       doc,
		grid:      g,
		docWidth:  g.Width(),
		docHeight: g.Height(),
		status:    doc.Name,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-statusLines, 1)
		m.grid.Layout(float64(msg.Width), float64(height))
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "esc" {
		m.confirmQuit = false
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.setStatus("unsaved changes: q to quit anyway, w to save", true)
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "left":
		m.resize(grid.Left)
	case "right":
		m.resize(grid.Right)
	case "up":
		m.resize(grid.Up)
	case "down":
		m.resize(grid.Down)
	case "s":
		m.split(grid.Right)
	case "v":
		m.split(grid.Down)
	case "x":
		m.remove()
	case "c":
		m.toggleCollapsed()
	case "=":
		m.distribute()
	case "w":
		m.save()
	}
	return m, nil
}

// ids lists region IDs in depth-first order.
func (m *editorModel) ids() []string {
	boxes := m.grid.Boxes()
	ids := make([]string, len(boxes))
	for i, b := range boxes {
		ids[i] = b.ID
	}
	return ids
}

func (m *editorModel) selectedID() string {
	ids := m.ids()
	if len(ids) == 0 {
		return ""
	}
	m.selected = min(max(m.selected, 0), len(ids)-1)
	return ids[m.selected]
}

func (m *editorModel) selectID(id string) {
	for i, v := range m.ids() {
		if v == id {
			m.selected = i
			return
		}
	}
}

func (m *editorModel) cycle(step int) {
	n := m.grid.Len()
	if n == 0 {
		return
	}
	m.selected = ((m.selected+step)%n + n) % n
	m.setStatus(m.describeSelected(), false)
}

func (m *editorModel) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// apply runs op against the grid and records the outcome in the status line.
func (m *editorModel) apply(op workspace.Op) bool {
	if err := op.Apply(m.grid); err != nil {
		m.setStatus(errs.UserMessage(err), true)
		return false
	}
	m.dirty = true
	m.setStatus(op.String(), false)
	return true
}

// resize drags the sash of the nearest ancestor split running along dir. The
// sash after the selected subtree is used, or the one before it for the
// last child.
func (m *editorModel) resize(dir grid.Direction) {
	id := m.selectedID()
	if id == "" {
		return
	}
	loc, err := m.grid.LocationOf(id)
	if err != nil {
		m.setStatus(errs.UserMessage(err), true)
		return
	}
	for depth := len(loc) - 1; depth >= 0; depth-- {
		parent := loc[:depth].Clone()
		node, err := m.grid.Node(parent)
		if err != nil {
			break
		}
		b, ok := node.(*grid.BranchNode)
		if !ok || b.Orientation() != dir.Orientation() || b.Len() < 2 {
			continue
		}
		sash := loc[depth]
		if sash == b.Len()-1 {
			sash--
		}
		delta := 1.0
		if dir == grid.Left || dir == grid.Up {
			delta = -1
		}
		m.apply(workspace.Op{Kind: workspace.OpResizeSash, Location: parent, Sash: sash, Delta: delta})
		return
	}
	m.setStatus("no sash to move "+dir.String(), true)
}

func (m *editorModel) split(dir grid.Direction) {
	spec, err := paneFlags{id: m.nextPaneID()}.spec(m.cfg, "")
	if err != nil {
		m.setStatus(errs.UserMessage(err), true)
		return
	}
	id := m.selectedID()
	op := workspace.Op{Kind: workspace.OpAdd, Location: grid.Location{0}, Pane: &spec}
	if id != "" {
		op = workspace.Op{Kind: workspace.OpSplit, Region: id, Direction: &dir, Pane: &spec}
	}
	if m.apply(op) {
		m.selectID(spec.ID)
	}
}

// nextPaneID returns the first unused "pane-N".
func (m *editorModel) nextPaneID() string {
	for i := m.grid.Len() + 1; ; i++ {
		id := fmt.Sprintf("pane-%d", i)
		if _, ok := m.grid.RegionByID(id); !ok {
			return id
		}
	}
}

func (m *editorModel) remove() {
	id := m.selectedID()
	if id == "" {
		return
	}
	m.apply(workspace.Op{Kind: workspace.OpRemove, Region: id})
	m.selectedID()
}

func (m *editorModel) toggleCollapsed() {
	id := m.selectedID()
	leaf, ok := m.grid.Leaf(id)
	if !ok {
		return
	}
	m.apply(workspace.Op{Kind: workspace.OpCollapse, Region: id, Collapsed: !leaf.Collapsed()})
}

func (m *editorModel) distribute() {
	id := m.selectedID()
	if id == "" {
		return
	}
	loc, err := m.grid.LocationOf(id)
	if err != nil {
		m.setStatus(errs.UserMessage(err), true)
		return
	}
	m.apply(workspace.Op{Kind: workspace.OpDistribute, Location: loc[:len(loc)-1].Clone()})
}

// save stores the layout at the document's size and restores the terminal
// size afterwards.
func (m *editorModel) save() {
	width, height := m.grid.Width(), m.grid.Height()
	m.grid.Layout(m.docWidth, m.docHeight)
	err := m.runner.Save(m.ctx, m.doc, m.grid)
	m.grid.Layout(width, height)
	if err != nil {
		m.setStatus(errs.UserMessage(err), true)
		return
	}
	m.dirty = false
	m.saves++
	m.setStatus("saved "+m.doc.Name, false)
}

func (m *editorModel) describeSelected() string {
	id := m.selectedID()
	if id == "" {
		return "empty layout: s to add a pane"
	}
	loc, _ := m.grid.LocationOf(id)
	leaf, _ := m.grid.Leaf(id)
	return fmt.Sprintf("%s %v %gx%g", id, loc, leaf.Width(), leaf.Height())
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(term.Render(m.grid, term.Options{Selected: m.selectedID(), Color: true}))
	b.WriteString("\n")

	name := m.doc.Name
	if m.dirty {
		name += "*"
	}
	status := tuiDimStyle.Render(m.status)
	if m.failed {
		status = tuiErrorStyle.Render(m.status)
	}
	b.WriteString(tuiTitleStyle.Render(name) + "  " + status)
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("tab select  ←↑↓→ resize  s/v split  x close  c collapse  = even  w save  q quit"))

	return b.String()
}
