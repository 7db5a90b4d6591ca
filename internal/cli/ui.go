package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // constraint warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // links and commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleHighlight renders document and region names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning renders constraint violations.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	markSuccess = "✓"
	markError   = "✗"
	markWarning = "!"
	markInfo    = "›"
	markFile    = "→"
	separator   = " · "
)

// =============================================================================
// console - Status output
// =============================================================================

// console writes human-oriented status lines. Commands send layouts and
// other data to stdout and status through a console on stderr, so piped
// output stays clean.
type console struct {
	w io.Writer
}

// consoleFor returns the console of cmd, bound to its error stream.
func consoleFor(cmd *cobra.Command) console {
	return console{w: cmd.ErrOrStderr()}
}

func (c console) line(mark lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprintln(c.w, mark.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func (c console) success(format string, args ...any) {
	c.line(styleSuccess, markSuccess, format, args...)
}

func (c console) failure(format string, args ...any) {
	c.line(styleError, markError, format, args...)
}

func (c console) info(format string, args ...any) {
	c.line(StyleDim, markInfo, format, args...)
}

// detail prints an indented secondary line.
func (c console) detail(format string, args ...any) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file reports a written output file.
func (c console) file(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(markFile)+" "+StyleValue.Render(path))
}

// field prints a labeled value.
func (c console) field(label, value string) {
	fmt.Fprintln(c.w, styleLabel.Render(label)+" "+StyleValue.Render(value))
}

// hint suggests a follow-up command.
func (c console) hint(description, command string) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, StyleDim.Render(description+":")+" "+styleCommand.Render(command))
}

// =============================================================================
// Layout summaries
// =============================================================================

// layoutSummary is the one-line outcome of an edit or render.
type layoutSummary struct {
	regions    int
	violations []grid.Violation
	cached     bool
}

func (s layoutSummary) String() string {
	parts := []string{fmt.Sprintf("%d regions", s.regions)}
	if n := len(s.violations); n == 1 {
		parts = append(parts, StyleWarning.Render("1 violation"))
	} else if n > 1 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d violations", n)))
	}
	if s.cached {
		parts = append(parts, styleSuccess.Render("cached"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(separator))
}

// summary prints s followed by one warning per violated constraint.
func (c console) summary(s layoutSummary) {
	fmt.Fprintln(c.w, s.String())
	for _, v := range s.violations {
		c.line(StyleWarning, markWarning, "%s %v: %s", StyleHighlight.Render(v.ID), v.Location, StyleWarning.Render(v.Reason))
	}
}
