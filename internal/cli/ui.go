package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mockup/pkg/scene"
)

// stdout receives all command output. Tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // active screen, highlights
	colorGreen  = lipgloss.Color("35")  // applied edits
	colorYellow = lipgloss.Color("220") // no-op edits
	colorRed    = lipgloss.Color("167") // locks
	colorBlue   = lipgloss.Color("75")  // click-through links
	colorPurple = lipgloss.Color("140") // groups and containers
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders screen and table titles.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders names the user just acted on.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink renders link targets.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders ids, geometry and other secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders element names.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleApplied = lipgloss.NewStyle().Foreground(colorGreen)
	styleNoop    = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleLocked     = lipgloss.NewStyle().Foreground(colorRed)
	styleHidden     = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleStructural = lipgloss.NewStyle().Foreground(colorPurple)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// typeStyle colors an element type in the layer tree: groups and containers
// stand out from leaves.
func typeStyle(t scene.ElementType) lipgloss.Style {
	if t.IsStructural() {
		return styleStructural
	}
	return StyleDim
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconApplied = "✓"
	iconNoop    = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconLock    = "🔒"
	iconHidden  = "◌"
	iconActive  = "●"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess reports an applied edit or a completed command.
func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleApplied.Render(iconApplied)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleNoop.Render(iconNoop)+" "+styleNoop.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints an aligned label and value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, "  "+styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNoop reports an operation that was refused for an interactive reason,
// such as a locked element or a drop that would create a cycle.
func printNoop(what string) {
	printWarning("Nothing changed: %s", what)
}

func printNewline() {
	fmt.Fprintln(stdout)
}
