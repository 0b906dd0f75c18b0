package render

import "strings"

// Markdown renders markdown content for terminal display using a pooled
// renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Reply renders a tutor reply, falling back to the raw text when the
// renderer fails. Trailing blank lines added by glamour are trimmed.
func Reply(text string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
