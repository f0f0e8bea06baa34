package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultSectionWidth = 80

// TerminalWidth returns the column count of destination, or a default for non-terminals.
func TerminalWidth(destination io.Writer) int {
	file, isFile := destination.(*os.File)
	if !isFile || !isTerminal(destination) {
		return defaultSectionWidth
	}
	width, _, sizeError := term.GetSize(int(file.Fd()))
	if sizeError != nil || width <= 0 {
		return defaultSectionWidth
	}
	return width
}

// SectionHeader renders title underlined by a rule spanning width columns.
func SectionHeader(title string, width int, palette *Palette) string {
	if width <= 0 {
		width = defaultSectionWidth
	}
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Width(width)
	if palette.Enabled() {
		style = style.Bold(true)
	}
	return style.Render(title)
}
