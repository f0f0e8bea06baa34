package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	defaultWrapWidth = 100
	plainStyleName   = "notty"
)

// MarkdownRenderer turns issue and comment bodies into terminal text.
type MarkdownRenderer interface {
	Render(content string) string
}

// PlainMarkdown returns bodies unchanged.
type PlainMarkdown struct{}

// Render returns content without trailing newlines.
func (PlainMarkdown) Render(content string) string {
	return strings.TrimRight(content, "\n")
}

// TerminalMarkdown renders markdown with glamour, falling back to the raw text.
type TerminalMarkdown struct {
	renderer *glamour.TermRenderer
}

// NewTerminalMarkdown builds a renderer wrapping at width. Styled output is
// used only when palette writes color.
func NewTerminalMarkdown(palette *Palette, width int) MarkdownRenderer {
	if width <= 0 {
		width = defaultWrapWidth
	}
	styleOption := glamour.WithStandardStyle(plainStyleName)
	if palette.Enabled() {
		styleOption = glamour.WithAutoStyle()
	}
	renderer, rendererError := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if rendererError != nil {
		return PlainMarkdown{}
	}
	return &TerminalMarkdown{renderer: renderer}
}

// Render renders content, returning it unchanged when glamour fails.
func (markdown *TerminalMarkdown) Render(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	rendered, renderError := markdown.renderer.Render(content)
	if renderError != nil {
		return PlainMarkdown{}.Render(content)
	}
	return strings.Trim(rendered, "\n")
}
