package chat

// Channel names are part of the fanout contract: every connection is
// subscribed to its own user channel for out-of-band notifications, and joins
// conversation channels explicitly after a membership check.

// UserChannel names the personal notification channel for a user.
func UserChannel(userID string) string {
	return "user:" + userID
}

// ConversationChannel names the broadcast channel for a conversation room.
func ConversationChannel(conversationID string) string {
	return "conversation:" + conversationID
}
