package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// Style detection follows the terminal background; width caps word wrapping.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, err }
	}
	return r.Render
}

// NewCipherRenderer styles ciphertext in bold red when the terminal supports colors.
// The returned function never fails.
func NewCipherRenderer(profile termenv.Profile) func(string) (string, error) {
	return func(s string) (string, error) {
		if profile == termenv.Ascii || s == "" {
			return s, nil
		}
		return termenv.String(s).Foreground(profile.Color("#dc2626")).Bold().String(), nil
	}
}
