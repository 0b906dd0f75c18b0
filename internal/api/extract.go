package api

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/diogo/tutorchat/internal/models"
)

// ExtractText pulls display text out of a generateContent response.
//
// The walk falls back in order: no candidates (block reason or ""), text
// parts joined by newlines, any non-empty string value of each part, a
// safety/block message, and finally "". It never panics.
func ExtractText(body []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	if !gjson.ValidBytes(body) {
		return ""
	}
	root := gjson.ParseBytes(body)
	block := reasonOf(root.Get(PathBlockReason))

	candidates := root.Get(PathCandidates)
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		if block != "" {
			return blockedMessage(block)
		}
		return ""
	}

	parts := root.Get(PathFirstParts)
	if parts.IsArray() {
		if texts := textParts(parts); len(texts) > 0 {
			return strings.TrimSpace(strings.Join(texts, "\n"))
		}
		if values := anyStringParts(parts); len(values) > 0 {
			return strings.TrimSpace(strings.Join(values, "\n"))
		}
	}

	finish := root.Get(PathFinishReason)
	if (finish.Type == gjson.String && finish.Str == models.SafetyFinishReason) || block != "" {
		if block == "" {
			block = finish.Str
		}
		return blockedMessage(block)
	}

	return ""
}

// textParts collects every non-empty string "text" field
func textParts(parts gjson.Result) []string {
	var texts []string
	for _, part := range parts.Array() {
		if !part.IsObject() {
			continue
		}
		t := part.Get(PathPartText)
		if t.Type == gjson.String && t.Str != "" {
			texts = append(texts, t.Str)
		}
	}
	return texts
}

// anyStringParts takes, for each part, the first non-blank string value in key order
func anyStringParts(parts gjson.Result) []string {
	var values []string
	for _, part := range parts.Array() {
		if !part.IsObject() {
			continue
		}
		part.ForEach(func(_, value gjson.Result) bool {
			if value.Type == gjson.String && strings.TrimSpace(value.Str) != "" {
				values = append(values, value.Str)
				return false
			}
			return true
		})
	}
	return values
}

// reasonOf renders a block reason value, or "" when it is absent or falsy
func reasonOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		if v.Num == 0 {
			return ""
		}
		return v.Raw
	case gjson.True, gjson.JSON:
		return v.Raw
	default:
		return ""
	}
}

func blockedMessage(reason string) string {
	return fmt.Sprintf(models.BlockedFormat, reason)
}
