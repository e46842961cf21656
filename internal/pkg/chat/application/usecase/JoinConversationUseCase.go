package usecase

import (
	"context"
	"fmt"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationUseCase authorizes a realtime subscription to a
// conversation channel. Only participants may join.
type JoinConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinConversationUseCase(repo repository.ChatRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, conversationID, userID string) error {
	if conversationID == "" || userID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
