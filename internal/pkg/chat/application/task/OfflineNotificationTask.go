package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/metrics"
	qport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// RegisterOfflineNotificationTask binds the offline-notification handler to
// the provided server. The handler re-checks presence at delivery time: if
// the recipient reconnected since the enqueue, the notification goes out on
// their personal channel; otherwise the handler only drops their cached
// unread count so the next poll reads fresh numbers. Deliveries are per
// recipient, so retries cannot double-notify other participants.
func RegisterOfflineNotificationTask(
	srv qport.Server,
	repo repository.ChatRepository,
	hub usecase.Broadcaster,
	cache cport.Cache,
	logger *zap.Logger,
) {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv.Register(usecase.TaskTypeOfflineNotification, func(ctx context.Context, t qport.Task) error {
		var p usecase.OfflineNotificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if !hub.IsOnline(p.RecipientID) {
			if cache != nil {
				if _, err := cache.Del(ctx, usecase.UnreadCacheKey(p.RecipientID)); err != nil {
					logger.Warn("failed to invalidate unread cache",
						zap.String("recipient_id", p.RecipientID), zap.Error(err))
				}
			}
			return nil
		}

		msg, err := repo.GetMessage(ctx, p.MessageID)
		if err != nil {
			if errors.Is(err, chat.ErrMessageNotFound) {
				// message deleted since enqueue, nothing to deliver
				return nil
			}
			return err
		}

		if delivered := hub.NotifyUser(p.RecipientID, usecase.EncodeMessageNotification(*msg)); delivered > 0 {
			metrics.RecordNotification("realtime")
		}
		return nil
	})
}
