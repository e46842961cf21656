package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cache "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// MarkReadResult reports the outcome of a mark-read pass over a conversation.
type MarkReadResult struct {
	ConversationID string    `json:"conversationId"`
	Marked         int64     `json:"marked"`
	ReadAt         time.Time `json:"readAt"`
}

// MarkReadUseCase marks every message another participant sent in a
// conversation as read and records the reader's watermark, in one
// transaction so the flags and the watermark cannot drift apart.
type MarkReadUseCase struct {
	Repo   repository.ChatRepository
	Cache  cache.Cache
	Logger *zap.Logger
}

func NewMarkReadUseCase(repo repository.ChatRepository, c cache.Cache, logger *zap.Logger) *MarkReadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkReadUseCase{Repo: repo, Cache: c, Logger: logger}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, conversationID, userID string) (*MarkReadResult, error) {
	if conversationID == "" || userID == "" {
		return nil, fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	now := time.Now().UTC()
	marked, err := uc.Repo.MarkRead(ctx, conversationID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if _, err := uc.Cache.Del(ctx, UnreadCacheKey(userID)); err != nil {
			uc.Logger.Warn("failed to invalidate unread cache",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	return &MarkReadResult{ConversationID: conversationID, Marked: marked, ReadAt: now}, nil
}
