package history

import (
	"strings"

	"github.com/diogo/tutorchat/internal/models"
)

// DeriveTitle builds a short conversation label from an exchange.
// It prefers the reply's shortest-conclusion section, then the first
// non-blank user and reply lines, then the raw user text.
func DeriveTitle(aiText, userText string) string {
	var title string

	if idx := strings.Index(aiText, models.TitleMarker); idx != -1 {
		after := aiText[idx+len(models.TitleMarker):]
		if stop := strings.IndexAny(after, "\n【"); stop != -1 {
			after = after[:stop]
		}
		title = collapseSpace(after)
	}

	if title == "" {
		userLine := truncateRunes(firstNonBlankLine(userText), models.TitleMaxRunes)
		aiLine := truncateRunes(firstNonBlankLine(aiText), models.TitleMaxRunes)
		switch {
		case userLine != "" && aiLine != "":
			title = collapseSpace(userLine + " → " + aiLine)
		default:
			title = collapseSpace(userLine + aiLine)
		}
	}

	if title == "" {
		title = collapseSpace(userText)
	}
	if title == "" {
		title = models.DefaultTitle
	}

	return truncateRunes(title, models.TitleMaxRunes)
}

// collapseSpace replaces every whitespace run with a single space and trims
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if collapseSpace(line) != "" {
			return line
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
