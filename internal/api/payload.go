package api

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/sjson"

	"github.com/diogo/tutorchat/internal/models"
)

// dataURLPattern matches data:<media-type>;base64,<payload>
var dataURLPattern = regexp.MustCompile(`^data:(.*?);base64,(.*)$`)

// ParseDataURL splits an encoded attachment into media type and payload.
// Anything that does not match the data URL shape is rejected.
func ParseDataURL(s string) (*models.InlineData, bool) {
	match := dataURLPattern.FindStringSubmatch(s)
	if match == nil {
		return nil, false
	}
	return &models.InlineData{
		MIMEType: match[1],
		Data:     match[2],
	}, true
}

// BuildContents turns normalized history into content blocks.
//
// Each entry becomes one block with a single text part. A valid attachment is
// added to the last block when it is a user block, otherwise a trailing user
// block holding only the image is appended. Malformed attachments are dropped.
func BuildContents(history []models.HistoryEntry, imageDataURL string) []models.Content {
	contents := make([]models.Content, 0, len(history)+1)

	for _, entry := range history {
		contents = append(contents, models.Content{
			Role:  entry.Role,
			Parts: []models.Part{{Text: entry.Content}},
		})
	}

	if imageDataURL == "" {
		return contents
	}

	inline, ok := ParseDataURL(imageDataURL)
	if !ok {
		return contents
	}

	image := models.Part{InlineData: inline}
	if n := len(contents); n > 0 && contents[n-1].Role == models.WireRoleUser {
		contents[n-1].Parts = append(contents[n-1].Parts, image)
		return contents
	}

	return append(contents, models.Content{
		Role:  models.WireRoleUser,
		Parts: []models.Part{image},
	})
}

// BuildRequest assembles the generateContent request body
func BuildRequest(contents []models.Content, systemPrompt string, cfg models.GenerationConfig) ([]byte, error) {
	if contents == nil {
		contents = []models.Content{}
	}

	rawContents, err := json.Marshal(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contents: %w", err)
	}

	payload, err := sjson.SetRawBytes([]byte(`{}`), "contents", rawContents)
	if err != nil {
		return nil, fmt.Errorf("failed to set contents: %w", err)
	}

	if systemPrompt != "" {
		instruction, err := json.Marshal(models.Content{
			Role:  models.WireRoleUser,
			Parts: []models.Part{{Text: systemPrompt}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode system instruction: %w", err)
		}
		payload, err = sjson.SetRawBytes(payload, "systemInstruction", instruction)
		if err != nil {
			return nil, fmt.Errorf("failed to set system instruction: %w", err)
		}
	}

	rawConfig, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation config: %w", err)
	}

	payload, err = sjson.SetRawBytes(payload, "generationConfig", rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set generation config: %w", err)
	}

	return payload, nil
}

// lastRoleIsUser reports whether the contents end with a user turn
func lastRoleIsUser(contents []models.Content) bool {
	n := len(contents)
	return n > 0 && contents[n-1].Role == models.WireRoleUser
}
