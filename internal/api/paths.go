// Package api provides the Gemini REST client and the request/response shaping around it.
package api

// GJSON paths for extracting values from generateContent responses.
// The response shape is not guaranteed, so every lookup goes through gjson.
const (
	PathCandidates   = "candidates"
	PathFirstParts   = "candidates.0.content.parts"
	PathFinishReason = "candidates.0.finishReason"
	PathBlockReason  = "promptFeedback.blockReason"

	// Part paths (relative to a part object)
	PathPartText = "text"

	// Error body paths
	// Gemini: {"error":{"code":400,"message":"...","status":"INVALID_ARGUMENT"}}
	PathGeminiErrorMessage = "error.message"
	// tutorchat server: {"error":"..."}
	PathServerError = "error"
	PathServerText  = "text"
)
