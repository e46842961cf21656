package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// StartConversationInput carries the two sides of a pairwise conversation.
type StartConversationInput struct {
	UserID      string
	OtherUserID string
}

// StartConversationUseCase finds or lazily creates the conversation between
// two users. Creation is idempotent: the store's unordered-pair constraint
// resolves concurrent creates, and a lost race is retried as a lookup.
type StartConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewStartConversationUseCase(repo repository.ChatRepository) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo}
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*chat.Conversation, error) {
	if in.UserID == "" || in.OtherUserID == "" {
		return nil, fmt.Errorf("user_id and other_user_id are required")
	}
	if in.UserID == in.OtherUserID {
		return nil, chat.ErrSelfConversation
	}

	conv, err := uc.Repo.FindConversationBetween(ctx, in.UserID, in.OtherUserID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, chat.ErrConversationNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The other side must exist before we create a thread with them.
	if _, err := uc.Repo.GetUserSummary(ctx, in.OtherUserID); err != nil {
		if errors.Is(err, chat.ErrUserNotFound) {
			return nil, chat.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv, err = uc.Repo.CreateConversation(ctx, in.UserID, in.OtherUserID)
	if errors.Is(err, chat.ErrDuplicateConversation) {
		// Lost the creation race: the winner's row is the conversation.
		conv, err = uc.Repo.FindConversationBetween(ctx, in.UserID, in.OtherUserID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
