package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	cache "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/metrics"
	queue "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// TaskTypeOfflineNotification queues a message notification for a recipient
// with no live connection at send time.
const TaskTypeOfflineNotification = "chat:offline_notification"

// OfflineNotificationPayload is the queued task body. The handler re-fetches
// the message by id, so the payload stays small and the notification reflects
// current state at delivery time.
type OfflineNotificationPayload struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	RecipientID    string `json:"recipientId"`
}

// Broadcaster is the slice of the realtime hub the dispatcher fans out
// through.
type Broadcaster interface {
	Broadcast(channel string, payload []byte, excludeUserID string) int
	NotifyUser(userID string, payload []byte) int
	IsOnline(userID string) bool
}

// MessageDispatcher is the outbound half of sending a message: it persists
// through SendMessageUseCase, then broadcasts the message to the conversation
// channel, notifies every other participant on their personal channel, and
// hands recipients with no live connection to the background queue.
type MessageDispatcher struct {
	Sender *SendMessageUseCase
	Repo   repository.ChatRepository
	Hub    Broadcaster
	Queue  queue.Client
	Cache  cache.Cache
	Logger *zap.Logger
}

func NewMessageDispatcher(
	sender *SendMessageUseCase,
	repo repository.ChatRepository,
	hub Broadcaster,
	q queue.Client,
	c cache.Cache,
	logger *zap.Logger,
) *MessageDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageDispatcher{
		Sender: sender,
		Repo:   repo,
		Hub:    hub,
		Queue:  q,
		Cache:  c,
		Logger: logger,
	}
}

// Dispatch persists and fans out a message. Persistence failures abort the
// whole send; fanout failures after the persist are logged and absorbed, the
// message is already durable and history reads will surface it.
func (d *MessageDispatcher) Dispatch(ctx context.Context, conversationID, senderID, content string) (*chat.Message, error) {
	msg, err := d.Sender.Execute(ctx, conversationID, senderID, content)
	if err != nil {
		return nil, err
	}
	metrics.MessagesSentTotal.Inc()

	// Room broadcast includes the sender's own connections, so a sender
	// with several devices sees the message everywhere.
	d.Hub.Broadcast(chat.ConversationChannel(conversationID), EncodeNewMessage(*msg), "")

	participants, err := d.Repo.ListParticipantIDs(ctx, conversationID)
	if err != nil {
		d.Logger.Error("failed to list participants for notification fanout",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return msg, nil
	}

	notification := EncodeMessageNotification(*msg)
	for _, recipientID := range participants {
		if recipientID == senderID {
			continue
		}
		d.invalidateUnread(ctx, recipientID)

		if delivered := d.Hub.NotifyUser(recipientID, notification); delivered > 0 {
			metrics.RecordNotification("realtime")
			continue
		}
		d.enqueueOffline(ctx, msg, recipientID)
	}
	return msg, nil
}

func (d *MessageDispatcher) enqueueOffline(ctx context.Context, msg *chat.Message, recipientID string) {
	if d.Queue == nil {
		return
	}
	payload, err := json.Marshal(OfflineNotificationPayload{
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
		RecipientID:    recipientID,
	})
	if err != nil {
		d.Logger.Error("failed to encode offline notification payload", zap.Error(err))
		return
	}
	_, err = d.Queue.Enqueue(ctx,
		queue.Task{Type: TaskTypeOfflineNotification, Payload: payload},
		queue.EnqueueOption{Queue: "chat", ProcessIn: 5 * time.Second, MaxRetry: 3},
	)
	if err != nil {
		d.Logger.Error("failed to enqueue offline notification",
			zap.String("recipient_id", recipientID),
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return
	}
	metrics.RecordNotification("queued")
}

func (d *MessageDispatcher) invalidateUnread(ctx context.Context, userID string) {
	if d.Cache == nil {
		return
	}
	if _, err := d.Cache.Del(ctx, UnreadCacheKey(userID)); err != nil {
		d.Logger.Warn("failed to invalidate unread cache",
			zap.String("user_id", userID), zap.Error(err))
	}
}
