package models

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Wire roles used in request history and content blocks
const (
	WireRoleUser  = "user"
	WireRoleModel = "model"
)

// WireRole maps a conversation role to the role expected by the model API
func (r Role) WireRole() string {
	if r == RoleUser {
		return WireRoleUser
	}
	return WireRoleModel
}

// HistoryEntry is the transport projection of a message: role and text only
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}
