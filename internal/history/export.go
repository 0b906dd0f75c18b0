package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/tutorchat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportFormatFromPath picks a format from a file extension
func ExportFormatFromPath(path string) ExportFormat {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ExportOptions configures how conversations are exported
type ExportOptions struct {
	Format        ExportFormat
	IncludeImages bool // Embed attached images as data URLs
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:        ExportFormatMarkdown,
		IncludeImages: false,
	}
}

// Export renders a conversation in the requested format
func (s *Store) Export(id string, opts ExportOptions) ([]byte, error) {
	switch opts.Format {
	case ExportFormatJSON:
		return s.ExportToJSON(id, opts)
	default:
		md, err := s.ExportToMarkdown(id, opts)
		return []byte(md), err
	}
}

// ExportToMarkdown exports a conversation to Markdown format
func (s *Store) ExportToMarkdown(id string, opts ExportOptions) (string, error) {
	conv, ok := s.Get(id)
	if !ok {
		return "", fmt.Errorf("conversation not found: %s", id)
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(conv.DisplayTitle())
	sb.WriteString("\n\n")

	sb.WriteString("**Created:** ")
	sb.WriteString(conv.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Updated:** ")
	sb.WriteString(conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(conv.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range conv.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if msg.Image != "" {
			if opts.IncludeImages {
				sb.WriteString("![attachment](")
				sb.WriteString(msg.Image)
				sb.WriteString(")\n\n")
			} else {
				sb.WriteString("_[image attached]_\n\n")
			}
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(conv.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String(), nil
}

// ExportToJSON exports a conversation to JSON format
func (s *Store) ExportToJSON(id string, opts ExportOptions) ([]byte, error) {
	conv, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("conversation not found: %s", id)
	}

	if !opts.IncludeImages {
		for i := range conv.Messages {
			if conv.Messages[i].Image != "" {
				conv.Messages[i].Image = "[image]"
			}
		}
	}

	return json.MarshalIndent(conv, "", "  ")
}

// SearchResult represents a search match in conversations
type SearchResult struct {
	Conversation *Conversation
	MatchSnippet string // Snippet where the term was found
	MatchField   string // "title" or "content"
	MatchIndex   int    // Message index if MatchField is "content", -1 for title
}

// SearchConversations searches titles and message content, newest first
func (s *Store) SearchConversations(query string) []*SearchResult {
	queryLower := strings.ToLower(query)
	var results []*SearchResult

	for _, conv := range s.List() {
		if strings.Contains(strings.ToLower(conv.Title), queryLower) {
			results = append(results, &SearchResult{
				Conversation: conv,
				MatchSnippet: conv.Title,
				MatchField:   "title",
				MatchIndex:   -1,
			})
			continue
		}

		for i, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				results = append(results, &SearchResult{
					Conversation: conv,
					MatchSnippet: extractSnippet(msg.Content, query, 40),
					MatchField:   "content",
					MatchIndex:   i,
				})
				break // one match per conversation
			}
		}
	}

	return results
}

// extractSnippet extracts up to maxLen runes around the first occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx == -1 {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	// byte offset -> rune offset
	runeIdx := len([]rune(content[:idx]))
	queryLen := len([]rune(query))

	half := maxLen / 2
	start := runeIdx - half
	end := runeIdx + queryLen + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

// FormatRelativeTime formats a time as a short relative label like "3分前"
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "たった今"
	case diff < time.Hour:
		return fmt.Sprintf("%d分前", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "昨日"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d日前", int(diff.Hours()/24))
	default:
		return t.Format("2006/01/02")
	}
}
