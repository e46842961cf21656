package repository

import (
	"context"
	"time"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Adapters translate store-level failures into the chat domain sentinels
// where the contract calls for them (not-found, duplicate pair).
type ChatRepository interface {
	// FindConversationBetween returns the conversation for the unordered
	// pair, hydrated with participant profiles, or ErrConversationNotFound.
	FindConversationBetween(ctx context.Context, userA, userB string) (*chat.Conversation, error)

	// CreateConversation inserts a conversation with exactly two
	// participants. Returns ErrDuplicateConversation when the pair key is
	// already taken so callers can retry as a lookup.
	CreateConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error)

	// ListConversationsForUser returns the user's conversations ordered by
	// last message time descending, each with its newest message and the
	// user's unread count.
	ListConversationsForUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error)

	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error)

	// CreateMessage persists a validated message and returns it with the
	// store-assigned id, timestamp and sender summary attached.
	CreateMessage(ctx context.Context, m chat.Message) (*chat.Message, error)
	GetMessage(ctx context.Context, messageID string) (*chat.Message, error)

	// UpdateConversationSummary denormalizes the newest message onto the
	// parent conversation.
	UpdateConversationSummary(ctx context.Context, conversationID, lastMessage string, at time.Time) error

	// ListMessages returns a page ordered newest-first.
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)

	CountUnread(ctx context.Context, conversationID, userID string) (int64, error)
	CountUnreadForUser(ctx context.Context, userID string) (int64, error)

	// MarkRead flips unread messages from other senders and upserts the
	// reader's lastReadAt watermark in a single transaction. Returns the
	// number of messages flipped.
	MarkRead(ctx context.Context, conversationID, userID string, at time.Time) (int64, error)

	// GetUserSummary resolves a user's display projection or ErrUserNotFound.
	GetUserSummary(ctx context.Context, userID string) (*chat.UserSummary, error)
}
