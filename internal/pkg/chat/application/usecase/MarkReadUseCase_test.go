package usecase_test

import (
	"context"
	"errors"
	"testing"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
)

func TestMarkReadFlipsOnlyOtherSendersMessages(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob")
	conv := seedConversation(t, repo, "alice", "bob")
	send := usecase.NewSendMessageUseCase(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := send.Execute(ctx, conv.ID, "alice", "from alice"); err != nil {
			t.Fatalf("send err: %v", err)
		}
	}
	if _, err := send.Execute(ctx, conv.ID, "bob", "from bob"); err != nil {
		t.Fatalf("send err: %v", err)
	}

	uc := usecase.NewMarkReadUseCase(repo, nil, nil)
	result, err := uc.Execute(ctx, conv.ID, "bob")
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if result.Marked != 3 {
		t.Fatalf("marked: got %d want 3", result.Marked)
	}

	// Bob's unread dropped to zero; Alice still has Bob's message unread.
	if n, _ := repo.CountUnread(ctx, conv.ID, "bob"); n != 0 {
		t.Fatalf("bob unread after mark-read: got %d want 0", n)
	}
	if n, _ := repo.CountUnread(ctx, conv.ID, "alice"); n != 1 {
		t.Fatalf("alice unread: got %d want 1", n)
	}

	refreshed, _ := repo.FindConversationBetween(ctx, "alice", "bob")
	for _, p := range refreshed.Participants {
		if p.UserID == "bob" && p.LastReadAt == nil {
			t.Fatal("bob's lastReadAt watermark not set")
		}
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob")
	conv := seedConversation(t, repo, "alice", "bob")
	send := usecase.NewSendMessageUseCase(repo)
	ctx := context.Background()

	if _, err := send.Execute(ctx, conv.ID, "alice", "hi"); err != nil {
		t.Fatalf("send err: %v", err)
	}

	uc := usecase.NewMarkReadUseCase(repo, nil, nil)
	if _, err := uc.Execute(ctx, conv.ID, "bob"); err != nil {
		t.Fatalf("first Execute err: %v", err)
	}
	second, err := uc.Execute(ctx, conv.ID, "bob")
	if err != nil {
		t.Fatalf("second Execute err: %v", err)
	}
	if second.Marked != 0 {
		t.Fatalf("second pass flipped %d messages, want 0", second.Marked)
	}
}

func TestMarkReadForbidsNonParticipant(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob", "mallory")
	conv := seedConversation(t, repo, "alice", "bob")
	uc := usecase.NewMarkReadUseCase(repo, nil, nil)

	_, err := uc.Execute(context.Background(), conv.ID, "mallory")
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkReadInvalidatesUnreadCache(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob")
	conv := seedConversation(t, repo, "alice", "bob")
	send := usecase.NewSendMessageUseCase(repo)
	ctx := context.Background()

	if _, err := send.Execute(ctx, conv.ID, "alice", "hi"); err != nil {
		t.Fatalf("send err: %v", err)
	}

	cache := newFakeCache()
	_ = cache.Set(ctx, usecase.UnreadCacheKey("bob"), "1", 0)

	uc := usecase.NewMarkReadUseCase(repo, cache, nil)
	if _, err := uc.Execute(ctx, conv.ID, "bob"); err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if !cache.deleted(usecase.UnreadCacheKey("bob")) {
		t.Fatal("unread cache entry not invalidated")
	}
}
