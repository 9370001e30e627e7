package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders reply markdown for the
// terminal using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
