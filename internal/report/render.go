package report

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the wrap width used when Render is given none.
const DefaultWordWrap = 100

// Render turns Markdown into styled terminal output. With noColor the
// plain "notty" style is used.
func Render(md string, width int, noColor bool) (string, error) {
	if width <= 0 {
		width = DefaultWordWrap
	}
	style := "dark"
	if noColor {
		style = "notty"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
