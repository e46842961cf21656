package usecase

import (
	"context"
	"fmt"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// SendMessageUseCase persists a new message and refreshes its conversation's
// summary. The membership gate runs before any write, so a rejected send
// leaves no trace.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, conversationID, senderID, content string) (*chat.Message, error) {
	ok, err := uc.Repo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	msg, err := chat.NewMessage(conversationID, senderID, content)
	if err != nil {
		return nil, err
	}

	saved, err := uc.Repo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Repo.UpdateConversationSummary(ctx, conversationID, saved.Content, saved.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return saved, nil
}
