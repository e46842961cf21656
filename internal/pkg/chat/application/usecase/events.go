package usecase

import (
	"encoding/json"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
)

// Server-to-client realtime event types.
const (
	EventConnected           = "connected"
	EventJoined              = "joined"
	EventNewMessage          = "new-message"
	EventMessageNotification = "message-notification"
	EventUserTyping          = "user-typing"
	EventUserStopTyping      = "user-stop-typing"
	EventError               = "error"
)

// NewMessageEvent is broadcast to a conversation channel when a message is
// persisted. Every subscriber receives it, the sender's connections included.
type NewMessageEvent struct {
	Type    string       `json:"type"`
	Message chat.Message `json:"message"`
}

// MessageNotificationEvent is delivered to each recipient's personal channel
// so clients can refresh badges without being subscribed to the conversation.
type MessageNotificationEvent struct {
	Type           string       `json:"type"`
	ConversationID string       `json:"conversationId"`
	Message        chat.Message `json:"message"`
}

// TypingEvent signals typing state inside a conversation channel.
type TypingEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// EncodeNewMessage renders the room broadcast frame for a message.
func EncodeNewMessage(m chat.Message) []byte {
	b, _ := json.Marshal(NewMessageEvent{Type: EventNewMessage, Message: m})
	return b
}

// EncodeMessageNotification renders the personal-channel frame for a message.
func EncodeMessageNotification(m chat.Message) []byte {
	b, _ := json.Marshal(MessageNotificationEvent{
		Type:           EventMessageNotification,
		ConversationID: m.ConversationID,
		Message:        m,
	})
	return b
}

// EncodeTyping renders a typing or stop-typing frame.
func EncodeTyping(eventType, conversationID, userID string) []byte {
	b, _ := json.Marshal(TypingEvent{
		Type:           eventType,
		ConversationID: conversationID,
		UserID:         userID,
	})
	return b
}
