// Package models contains data types and constants for the Gemini REST API.
package models

// Endpoints for the Gemini REST API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta"

	// ChatPath is the tutorchat server route that proxies to Gemini
	ChatPath = "/api/chat"
)

// Model names
const (
	Model25Flash = "gemini-2.5-flash"
	Model25Pro   = "gemini-2.5-pro"

	// DefaultModel is the model the tutor is tuned for
	DefaultModel = Model25Flash
)

// AllModels returns the list of supported model names
func AllModels() []string {
	return []string{Model25Flash, Model25Pro}
}

// Generation parameters. These are fixed for the tutor and not user-configurable.
const (
	Temperature     = 0.7
	TopP            = 0.95
	TopK            = 40
	MaxOutputTokens = 8192
)

// DefaultGenerationConfig returns the fixed generation parameters
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     Temperature,
		TopP:            TopP,
		TopK:            TopK,
		MaxOutputTokens: MaxOutputTokens,
	}
}

// Reveal pacing defaults
const (
	DefaultRevealChunk      = 3
	DefaultRevealIntervalMs = 16
)

// TitleMaxRunes is the maximum length of a derived conversation title
const TitleMaxRunes = 40

// User-facing texts
const (
	Greeting = "こんにちは！\nAIチューターのセキスペくんと申します。\nご質問がございましたら、お気軽にお尋ねください。"

	DefaultTitle  = "新しいチャット"
	UntitledLabel = "無題"

	ImageOnlyText = "画像を送信しました"

	// NoResponseText is returned by the client when nothing could be extracted
	NoResponseText = "(応答が取得できませんでした)"
	// EmptyReplyText is shown when the transport returned an empty reply
	EmptyReplyText = "(応答が空です)"

	BlockedFormat      = "ポリシーによりブロックされました (%s)"
	ErrorPrefix        = "エラーが発生しました: "
	SignInRequiredText = "この機能を利用するにはサインインが必要です。ヘッダー右上のサインインからログインしてください。"
	UnknownErrorText   = "Unknown error"

	// TitleMarker introduces the shortest-conclusion section of a tutor reply
	TitleMarker = "【結論（最短要約）】"
)

// SafetyFinishReason is the finish reason reported for safety-blocked candidates
const SafetyFinishReason = "SAFETY"

// SupportedImageTypes returns the list of MIME types accepted as attachments
func SupportedImageTypes() []string {
	return []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/heic",
		"image/heif",
	}
}

// MaxImageSize is the largest attachment accepted from disk
const MaxImageSize = 20 * 1024 * 1024 // 20MB

// DefaultHeaders returns the default headers for Gemini requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "tutorchat/1.0",
	}
}
