package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
)

// fakeChatRepo is a thread-safe in-memory ChatRepository for use case tests.
type fakeChatRepo struct {
	mu sync.Mutex

	users         map[string]chat.UserSummary
	conversations map[string]*fakeConversation
	messages      map[string]chat.Message
	order         []string // message ids in insertion order

	seq   int
	clock time.Time

	failCreateConversation error // injected once, cleared after use
	hideFindOnce           bool  // next FindConversationBetween misses, then cleared
}

type fakeConversation struct {
	id            string
	pairKey       string
	lastMessage   *string
	lastMessageAt *time.Time
	createdAt     time.Time
	participants  map[string]*time.Time // userID -> lastReadAt
}

func newFakeChatRepo(userIDs ...string) *fakeChatRepo {
	r := &fakeChatRepo{
		users:         make(map[string]chat.UserSummary),
		conversations: make(map[string]*fakeConversation),
		messages:      make(map[string]chat.Message),
		clock:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, id := range userIDs {
		r.users[id] = chat.UserSummary{ID: id, Name: "user " + id, Role: "ADOPTER"}
	}
	return r
}

func (r *fakeChatRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeChatRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeChatRepo) FindConversationBetween(_ context.Context, userA, userB string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideFindOnce {
		r.hideFindOnce = false
		return nil, chat.ErrConversationNotFound
	}
	key := chat.PairKey(userA, userB)
	for _, c := range r.conversations {
		if c.pairKey == key {
			return r.toDomainLocked(c), nil
		}
	}
	return nil, chat.ErrConversationNotFound
}

func (r *fakeChatRepo) CreateConversation(_ context.Context, userA, userB string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateConversation != nil {
		err := r.failCreateConversation
		r.failCreateConversation = nil
		return nil, err
	}
	key := chat.PairKey(userA, userB)
	for _, c := range r.conversations {
		if c.pairKey == key {
			return nil, chat.ErrDuplicateConversation
		}
	}
	c := &fakeConversation{
		id:        r.nextID("conv"),
		pairKey:   key,
		createdAt: r.tick(),
		participants: map[string]*time.Time{
			userA: nil,
			userB: nil,
		},
	}
	r.conversations[c.id] = c
	return r.toDomainLocked(c), nil
}

func (r *fakeChatRepo) ListConversationsForUser(_ context.Context, userID string) ([]chat.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var summaries []chat.ConversationSummary
	for _, c := range r.conversations {
		if _, ok := c.participants[userID]; !ok {
			continue
		}
		s := chat.ConversationSummary{Conversation: *r.toDomainLocked(c)}
		if newest := r.newestMessageLocked(c.id); newest != nil {
			m := *newest
			s.NewestMessage = &m
		}
		s.UnreadCount = r.countUnreadLocked(c.id, userID)
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		ti, tj := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
	return summaries, nil
}

func (r *fakeChatRepo) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return false, nil
	}
	_, ok = c.participants[userID]
	return ok, nil
}

func (r *fakeChatRepo) ListParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	ids := make([]string, 0, len(c.participants))
	for id := range c.participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, m chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID("msg")
	m.CreatedAt = r.tick()
	if sender, ok := r.users[m.SenderID]; ok {
		s := sender
		m.Sender = &s
	}
	r.messages[m.ID] = m
	r.order = append(r.order, m.ID)
	out := m
	return &out, nil
}

func (r *fakeChatRepo) GetMessage(_ context.Context, messageID string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	out := m
	return &out, nil
}

func (r *fakeChatRepo) UpdateConversationSummary(_ context.Context, conversationID, lastMessage string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	c.lastMessage = &lastMessage
	t := at
	c.lastMessageAt = &t
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []chat.Message
	for i := len(r.order) - 1; i >= 0; i-- { // newest first
		m := r.messages[r.order[i]]
		if m.ConversationID == conversationID {
			all = append(all, m)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeChatRepo) CountMessages(_ context.Context, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func (r *fakeChatRepo) CountUnread(_ context.Context, conversationID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countUnreadLocked(conversationID, userID), nil
}

func (r *fakeChatRepo) CountUnreadForUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.conversations {
		if _, ok := c.participants[userID]; ok {
			n += r.countUnreadLocked(id, userID)
		}
	}
	return n, nil
}

func (r *fakeChatRepo) MarkRead(_ context.Context, conversationID, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return 0, chat.ErrConversationNotFound
	}
	var n int64
	for id, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.IsRead {
			m.IsRead = true
			r.messages[id] = m
			n++
		}
	}
	t := at
	c.participants[userID] = &t
	return n, nil
}

func (r *fakeChatRepo) GetUserSummary(_ context.Context, userID string) (*chat.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, chat.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeChatRepo) countUnreadLocked(conversationID, userID string) int64 {
	var n int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.IsRead {
			n++
		}
	}
	return n
}

func (r *fakeChatRepo) newestMessageLocked(conversationID string) *chat.Message {
	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.messages[r.order[i]]
		if m.ConversationID == conversationID {
			return &m
		}
	}
	return nil
}

func (r *fakeChatRepo) toDomainLocked(c *fakeConversation) *chat.Conversation {
	conv := &chat.Conversation{
		ID:            c.id,
		LastMessage:   c.lastMessage,
		LastMessageAt: c.lastMessageAt,
		CreatedAt:     c.createdAt,
	}
	ids := make([]string, 0, len(c.participants))
	for id := range c.participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := chat.Participant{ConversationID: c.id, UserID: id, LastReadAt: c.participants[id]}
		if u, ok := r.users[id]; ok {
			uu := u
			p.User = &uu
		}
		conv.Participants = append(conv.Participants, p)
	}
	return conv
}
