package usecase

import (
	"context"
	"fmt"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/port"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
)

// GetMessagesInput carries pagination parameters for a conversation's history.
type GetMessagesInput struct {
	UserID         string
	ConversationID string
	Page           int
	PageSize       int
}

// PageMeta describes a page of results.
type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"limit"`
	Total    int64 `json:"total"`
}

// MessagesPage is one page of history in chronological order.
type MessagesPage struct {
	Messages []chat.Message `json:"messages"`
	Meta     PageMeta       `json:"meta"`
}

// GetMessagesUseCase returns paginated history for a conversation the caller
// participates in. Pages are selected newest-first but each page is returned
// oldest-first, so clients can render it top to bottom.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) (*MessagesPage, error) {
	if in.UserID == "" || in.ConversationID == "" {
		return nil, fmt.Errorf("user_id and conversation_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	page := in.Page
	if page <= 0 {
		page = defaultPage
	}
	size := in.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	offset := (page - 1) * size

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, size, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	total, err := uc.Repo.CountMessages(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Reverse the newest-first page into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return &MessagesPage{
		Messages: msgs,
		Meta:     PageMeta{Page: page, PageSize: size, Total: total},
	}, nil
}
