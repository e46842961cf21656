package chat

import (
	"strings"
	"time"
)

// Conversation is a pairwise thread between two users. The design supports
// more participants, but every creation path makes exactly two.
type Conversation struct {
	ID            string        `json:"id"`
	LastMessage   *string       `json:"lastMessage"`
	LastMessageAt *time.Time    `json:"lastMessageAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	Participants  []Participant `json:"participants,omitempty"`
}

// ConversationSummary annotates a conversation for inbox listings with its
// newest message and the viewer's unread count.
type ConversationSummary struct {
	Conversation
	NewestMessage *Message `json:"newestMessage"`
	UnreadCount   int64    `json:"unreadCount"`
}

// PairKey builds the canonical unordered-pair key for two user IDs. A unique
// index on this key is what prevents duplicate conversations when two
// findOrCreate calls race.
func PairKey(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
