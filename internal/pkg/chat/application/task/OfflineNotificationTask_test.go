package task_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	qport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/task"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

// captureServer records registered handlers so tests can invoke them directly.
type captureServer struct {
	handlers map[string]qport.Handler
}

func (s *captureServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]qport.Handler)
	}
	s.handlers[taskType] = h
}

func (s *captureServer) Run(context.Context) error  { return nil }
func (s *captureServer) Stop(context.Context) error { return nil }

// stubRepo overrides only what the handler touches; anything else panics.
type stubRepo struct {
	repository.ChatRepository
	msg *chat.Message
}

func (r *stubRepo) GetMessage(_ context.Context, id string) (*chat.Message, error) {
	if r.msg != nil && r.msg.ID == id {
		return r.msg, nil
	}
	return nil, chat.ErrMessageNotFound
}

type stubHub struct {
	online   bool
	notified []string
}

func (h *stubHub) Broadcast(string, []byte, string) int { return 0 }
func (h *stubHub) IsOnline(string) bool                 { return h.online }

func (h *stubHub) NotifyUser(userID string, _ []byte) int {
	h.notified = append(h.notified, userID)
	return 1
}

type stubCache struct {
	deleted []string
}

func (c *stubCache) Get(context.Context, string) (string, error) { return "", cport.ErrMiss }
func (c *stubCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}

func (c *stubCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.deleted = append(c.deleted, keys...)
	return int64(len(keys)), nil
}

func (c *stubCache) Ping(context.Context) error { return nil }
func (c *stubCache) Close() error               { return nil }

func payloadFor(t *testing.T, recipientID, messageID string) []byte {
	t.Helper()
	b, err := json.Marshal(usecase.OfflineNotificationPayload{
		ConversationID: "c1",
		MessageID:      messageID,
		RecipientID:    recipientID,
	})
	if err != nil {
		t.Fatalf("marshal payload err: %v", err)
	}
	return b
}

func TestOfflineNotificationDeliversOnReconnect(t *testing.T) {
	srv := &captureServer{}
	hub := &stubHub{online: true}
	repo := &stubRepo{msg: &chat.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", Content: "hi"}}
	task.RegisterOfflineNotificationTask(srv, repo, hub, &stubCache{}, nil)

	h := srv.handlers[usecase.TaskTypeOfflineNotification]
	if h == nil {
		t.Fatal("handler not registered")
	}
	if err := h(context.Background(), qport.Task{
		Type:    usecase.TaskTypeOfflineNotification,
		Payload: payloadFor(t, "bob", "m1"),
	}); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if len(hub.notified) != 1 || hub.notified[0] != "bob" {
		t.Fatalf("notified: %v, want [bob]", hub.notified)
	}
}

func TestOfflineNotificationDropsForStillOfflineRecipient(t *testing.T) {
	srv := &captureServer{}
	hub := &stubHub{online: false}
	cache := &stubCache{}
	task.RegisterOfflineNotificationTask(srv, &stubRepo{}, hub, cache, nil)

	h := srv.handlers[usecase.TaskTypeOfflineNotification]
	if err := h(context.Background(), qport.Task{
		Type:    usecase.TaskTypeOfflineNotification,
		Payload: payloadFor(t, "bob", "m1"),
	}); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if len(hub.notified) != 0 {
		t.Fatal("offline recipient was notified")
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != usecase.UnreadCacheKey("bob") {
		t.Fatalf("cache invalidations: %v", cache.deleted)
	}
}

func TestOfflineNotificationIgnoresDeletedMessage(t *testing.T) {
	srv := &captureServer{}
	hub := &stubHub{online: true}
	task.RegisterOfflineNotificationTask(srv, &stubRepo{}, hub, &stubCache{}, nil)

	h := srv.handlers[usecase.TaskTypeOfflineNotification]
	if err := h(context.Background(), qport.Task{
		Type:    usecase.TaskTypeOfflineNotification,
		Payload: payloadFor(t, "bob", "gone"),
	}); err != nil {
		t.Fatalf("handler should swallow missing messages, got %v", err)
	}
	if len(hub.notified) != 0 {
		t.Fatal("notification sent for a missing message")
	}
}
