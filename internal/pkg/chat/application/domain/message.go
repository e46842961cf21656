package chat

import (
	"strings"
	"time"
)

// MaxContentLength bounds a single message body.
const MaxContentLength = 4000

// Message is an immutable log entry in a conversation. The only permitted
// mutation after creation is the false->true IsRead transition.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	SenderID       string       `json:"senderId"`
	Content        string       `json:"content"`
	IsRead         bool         `json:"isRead"`
	CreatedAt      time.Time    `json:"createdAt"`
	Sender         *UserSummary `json:"sender,omitempty"`
}

// NewMessage validates and normalizes a draft message before persistence.
func NewMessage(conversationID, senderID, content string) (Message, error) {
	if conversationID == "" || senderID == "" {
		return Message{}, ErrInvalidMessage
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	if len(content) > MaxContentLength {
		return Message{}, ErrMessageTooLong
	}
	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}, nil
}
