package chat

import "time"

// Participant links a user to a conversation and carries their read
// watermark. Primary key: (ConversationID, UserID).
type Participant struct {
	ConversationID string       `json:"conversationId"`
	UserID         string       `json:"userId"`
	LastReadAt     *time.Time   `json:"lastReadAt"`
	User           *UserSummary `json:"user,omitempty"`
}
