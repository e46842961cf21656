package chat

import "errors"

// Domain-level errors for chat behaviors.
var (
	ErrNotParticipant        = errors.New("chat: user is not a participant in the conversation")
	ErrUserNotFound          = errors.New("chat: user not found")
	ErrConversationNotFound  = errors.New("chat: conversation not found")
	ErrMessageNotFound       = errors.New("chat: message not found")
	ErrDuplicateConversation = errors.New("chat: conversation already exists for this pair")
	ErrSelfConversation      = errors.New("chat: cannot start a conversation with yourself")
	ErrInvalidMessage        = errors.New("chat: conversation_id and sender_id are required")
	ErrEmptyMessage          = errors.New("chat: empty message body")
	ErrMessageTooLong        = errors.New("chat: message body exceeds maximum length")
)
