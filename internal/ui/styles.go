// Package ui styles the text that the calling shell echoes back to the user.
//
// Styled text is embedded in echo statements, so the color decision is made
// against stderr (the user's terminal) rather than stdout, which is always
// captured by the evaluating shell.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	Cyan   = lipgloss.Color("6")
	Yellow = lipgloss.Color("3")
	Green  = lipgloss.Color("2")
	Gray   = lipgloss.Color("8")
)

var (
	renderer = lipgloss.NewRenderer(os.Stderr)

	// NameStyle for image and view names
	NameStyle = renderer.NewStyle().Foreground(Cyan).Bold(true)

	// WarningStyle for degraded-functionality notes
	WarningStyle = renderer.NewStyle().Foreground(Yellow)

	// ActiveStyle marks loaded views and module trees
	ActiveStyle = renderer.NewStyle().Foreground(Green)

	// DimStyle for secondary text
	DimStyle = renderer.NewStyle().Foreground(Gray)
)

var colorEnabled bool

// SetColor enables styling when requested and stderr is a terminal.
func SetColor(on bool) {
	colorEnabled = on && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
}

func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

func Name(s string) string    { return render(NameStyle, s) }
func Warning(s string) string { return render(WarningStyle, s) }
func Active(s string) string  { return render(ActiveStyle, s) }
func Dim(s string) string     { return render(DimStyle, s) }
