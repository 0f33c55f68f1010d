// Package browser opens URLs in the user's web browser.
package browser

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

func init() {
	// The helper process output would otherwise interleave with the TUI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

var openURL = browser.OpenURL

// Open opens an http(s) URL in the default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: unsupported scheme", u.Scheme)
	}
	return openURL(u.String())
}
