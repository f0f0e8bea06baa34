// Package clipboard places issue permalinks on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemClipboard implements Copier using github.com/atotto/clipboard.
type SystemClipboard struct {
	writeAll    func(text string) error
	unsupported bool
}

// NewSystemClipboard returns a Copier for the desktop clipboard.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{writeAll: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// Copy writes text to the clipboard.
func (systemClipboard *SystemClipboard) Copy(text string) error {
	if systemClipboard.unsupported {
		return ErrUnavailable
	}
	if writeError := systemClipboard.writeAll(text); writeError != nil {
		return fmt.Errorf("copy to clipboard: %w", writeError)
	}
	return nil
}

var _ Copier = (*SystemClipboard)(nil)
