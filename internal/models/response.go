package models

import "encoding/json"

// InlineData is an inline media attachment (base64 payload)
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Part is a single content part: either text or inline media
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// IsText returns whether the part carries text rather than media
func (p Part) IsText() bool {
	return p.InlineData == nil
}

// Content is a content block pairing a role with one or more parts
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// MarshalJSON emits exactly one of text or inline_data. Empty text parts
// are kept as {"text":""}.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.InlineData != nil {
		return json.Marshal(struct {
			InlineData *InlineData `json:"inline_data"`
		}{p.InlineData})
	}
	return json.Marshal(struct {
		Text string `json:"text"`
	}{p.Text})
}

// GenerationConfig holds the sampling parameters of a request
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message      string         `json:"message,omitempty"`
	ImageDataURL string         `json:"imageDataUrl,omitempty"`
	History      []HistoryEntry `json:"history,omitempty"`
}

// ChatResponse is the success body of POST /api/chat
type ChatResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the failure body of POST /api/chat
type ErrorResponse struct {
	Error string `json:"error"`
}
