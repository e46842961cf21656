package usecase_test

import (
	"context"
	"errors"
	"testing"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
)

func TestJoinConversationAllowsParticipant(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob")
	conv := seedConversation(t, repo, "alice", "bob")
	uc := usecase.NewJoinConversationUseCase(repo)

	if err := uc.Execute(context.Background(), conv.ID, "alice"); err != nil {
		t.Fatalf("Execute err: %v", err)
	}
}

func TestJoinConversationRejectsOutsider(t *testing.T) {
	repo := newFakeChatRepo("alice", "bob", "mallory")
	conv := seedConversation(t, repo, "alice", "bob")
	uc := usecase.NewJoinConversationUseCase(repo)

	err := uc.Execute(context.Background(), conv.ID, "mallory")
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}
