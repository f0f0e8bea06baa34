package output

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when escape sequences are written.
type ColorMode string

const (
	// ColorAuto colors only terminals and honors NO_COLOR.
	ColorAuto ColorMode = "auto"
	// ColorAlways colors regardless of the destination.
	ColorAlways ColorMode = "always"
	// ColorNever writes plain text.
	ColorNever ColorMode = "never"

	noColorEnvironmentVariable = "NO_COLOR"
)

// ParseColorMode maps a configuration value onto a ColorMode, defaulting to ColorAuto.
func ParseColorMode(value string) ColorMode {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAlways:
		return ColorAlways
	case ColorNever:
		return ColorNever
	default:
		return ColorAuto
	}
}

// Palette colors status names by their category color.
type Palette struct {
	enabled bool
}

// NewPalette decides once, for destination, whether color is written.
func NewPalette(mode ColorMode, destination io.Writer) *Palette {
	switch mode {
	case ColorAlways:
		return &Palette{enabled: true}
	case ColorNever:
		return &Palette{enabled: false}
	}
	if _, disabled := os.LookupEnv(noColorEnvironmentVariable); disabled {
		return &Palette{enabled: false}
	}
	return &Palette{enabled: isTerminal(destination)}
}

// PlainPalette never writes color.
func PlainPalette() *Palette {
	return &Palette{}
}

// Enabled reports whether the palette writes escape sequences.
func (palette *Palette) Enabled() bool {
	return palette != nil && palette.enabled
}

// Foreground writes text in the category color.
func (palette *Palette) Foreground(text string, categoryColor string) string {
	attribute, known := foregroundAttributes[normalizeColorName(categoryColor)]
	if !palette.Enabled() || !known {
		return text
	}
	return palette.render(color.New(attribute), text)
}

// Badge writes text in white on the category color.
func (palette *Palette) Badge(text string, categoryColor string) string {
	attribute, known := backgroundAttributes[normalizeColorName(categoryColor)]
	if !palette.Enabled() || !known {
		return text
	}
	return palette.render(color.New(color.FgHiWhite, color.Bold, attribute), text)
}

// Emphasis writes text in bold.
func (palette *Palette) Emphasis(text string) string {
	if !palette.Enabled() {
		return text
	}
	return palette.render(color.New(color.Bold), text)
}

func (palette *Palette) render(style *color.Color, text string) string {
	style.EnableColor()
	return style.Sprint(text)
}

// Category colors reported by the tracker.
var foregroundAttributes = map[string]color.Attribute{
	"blue-gray":   color.FgBlue,
	"blue":        color.FgBlue,
	"yellow":      color.FgYellow,
	"brown":       color.FgYellow,
	"green":       color.FgGreen,
	"medium-gray": color.FgHiBlack,
	"warm-red":    color.FgRed,
	"red":         color.FgRed,
}

var backgroundAttributes = map[string]color.Attribute{
	"blue-gray":   color.BgBlue,
	"blue":        color.BgBlue,
	"yellow":      color.BgYellow,
	"brown":       color.BgYellow,
	"green":       color.BgGreen,
	"medium-gray": color.BgHiBlack,
	"warm-red":    color.BgRed,
	"red":         color.BgRed,
}

func normalizeColorName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isTerminal(destination io.Writer) bool {
	file, isFile := destination.(*os.File)
	if !isFile {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
