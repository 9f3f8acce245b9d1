package collab

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders thought content for the transcript, falling back to
// the plain text whenever glamour cannot produce output.
func renderMarkdown(content string, width int) string {
	normalized := normalizeNewlines(content)
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return normalized
	}
	rendered, err := renderer.Render(normalized)
	if err != nil {
		return normalized
	}
	return strings.TrimRight(rendered, "\n")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
