package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cache "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

const unreadCacheTTL = 30 * time.Second

// UnreadCacheKey is the cache key holding a user's total unread count.
func UnreadCacheKey(userID string) string {
	return "chat:unread:" + userID
}

// UnreadCountUseCase returns the total number of unread messages across all
// of a user's conversations, answering from cache when possible.
type UnreadCountUseCase struct {
	Repo  repository.ChatRepository
	Cache cache.Cache
}

func NewUnreadCountUseCase(repo repository.ChatRepository, c cache.Cache) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo, Cache: c}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, UnreadCacheKey(userID)); err == nil {
			if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return n, nil
			}
		}
	}

	count, err := uc.Repo.CountUnreadForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		// Best effort; a failed cache write must not fail the request.
		_ = uc.Cache.Set(ctx, UnreadCacheKey(userID), strconv.FormatInt(count, 10), unreadCacheTTL)
	}
	return count, nil
}
