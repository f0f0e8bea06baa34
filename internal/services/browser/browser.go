// Package browser opens issue permalinks in the desktop web browser.
package browser

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// Opener opens a URL for the user.
type Opener interface {
	Open(url string) error
}

// SystemBrowser opens URLs with the platform launcher (xdg-open, open, start).
type SystemBrowser struct {
	openURL func(url string) error
}

// NewSystemBrowser returns an Opener whose launcher output is discarded.
func NewSystemBrowser() *SystemBrowser {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &SystemBrowser{openURL: browser.OpenURL}
}

// Open launches the browser on url.
func (systemBrowser *SystemBrowser) Open(url string) error {
	if openError := systemBrowser.openURL(url); openError != nil {
		return fmt.Errorf("open %s in browser: %w", url, openError)
	}
	return nil
}

var _ Opener = (*SystemBrowser)(nil)
