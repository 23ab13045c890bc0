package models

import "time"

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationEntry is one turn in the session conversation. Entries are
// append-only and insertion order is display order. A successful analysis
// response attaches its result to the assistant entry that announced it.
type ConversationEntry struct {
	ID     string          `json:"id"`
	Role   Role            `json:"role"`
	Text   string          `json:"text"`
	SentAt time.Time       `json:"sent_at"`
	Result *AnalysisResult `json:"result,omitempty"`
}
