package usecase_test

import (
	"context"
	"testing"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
)

func TestListConversationsOrdersByActivity(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob", "carol")
	convAB := seedConversation(t, repo, "alice", "bob")
	convAC := seedConversation(t, repo, "alice", "carol")
	send := usecase.NewSendMessageUseCase(repo)
	ctx := context.Background()

	if _, err := send.Execute(ctx, convAB.ID, "bob", "first"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if _, err := send.Execute(ctx, convAC.ID, "carol", "second"); err != nil {
		t.Fatalf("send err: %v", err)
	}

	uc := usecase.NewListConversationsUseCase(repo)
	summaries, err := uc.Execute(ctx, "alice")
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("conversations: got %d want 2", len(summaries))
	}
	// Most recently active first.
	if summaries[0].ID != convAC.ID {
		t.Fatalf("ordering: got %s first, want %s", summaries[0].ID, convAC.ID)
	}
	if summaries[0].NewestMessage == nil || summaries[0].NewestMessage.Content != "second" {
		t.Fatal("newest message not attached")
	}
	if summaries[0].UnreadCount != 1 || summaries[1].UnreadCount != 1 {
		t.Fatalf("unread counts: got %d and %d, want 1 and 1",
			summaries[0].UnreadCount, summaries[1].UnreadCount)
	}
}

func TestListConversationsExcludesOthers(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob", "carol")
	seedConversation(t, repo, "alice", "bob")

	uc := usecase.NewListConversationsUseCase(repo)
	summaries, err := uc.Execute(context.Background(), "carol")
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("carol sees %d conversations, want 0", len(summaries))
	}
}
