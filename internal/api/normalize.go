package api

import "github.com/diogo/tutorchat/internal/models"

// NormalizeHistory prepares prior turns for a generate request.
//
// Entries before the first user entry are dropped; everything after it is
// kept as-is, including consecutive same-role entries. A non-empty message is
// appended as the final user turn.
func NormalizeHistory(raw []models.HistoryEntry, message string) []models.HistoryEntry {
	normalized := make([]models.HistoryEntry, 0, len(raw)+1)

	seenUser := false
	for _, entry := range raw {
		if !seenUser && entry.Role != models.WireRoleUser {
			continue
		}
		seenUser = true
		normalized = append(normalized, entry)
	}

	if message != "" {
		normalized = append(normalized, models.HistoryEntry{
			Role:    models.WireRoleUser,
			Content: message,
		})
	}

	return normalized
}
