package realtime

import (
	"sync"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
)

// Subscriber is a live connection the hub can deliver payloads to.
type Subscriber interface {
	SessionID() string
	User() string
	Send(payload []byte) error
}

// Hub is the process-wide registry of connections and named channels.
// A user may hold several live connections at once; each of them is
// subscribed to the user's personal channel on attach and to conversation
// channels on explicit join. The raw maps are never exposed: all mutation
// goes through Attach/Detach/Join/Leave, and Broadcast snapshots the
// subscriber set before emitting so a join or disconnect mid-fanout cannot
// interleave with the iteration.
type Hub struct {
	mu              sync.RWMutex
	sessions        map[string]Subscriber            // sessionID -> subscriber
	userSessions    map[string]map[string]struct{}   // userID -> sessionID set
	channels        map[string]map[string]Subscriber // channel -> sessionID -> subscriber
	sessionChannels map[string]map[string]struct{}   // sessionID -> channel set
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:        make(map[string]Subscriber),
		userSessions:    make(map[string]map[string]struct{}),
		channels:        make(map[string]map[string]Subscriber),
		sessionChannels: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and subscribes it to the user's personal
// channel. Other connections of the same user are left untouched.
func (h *Hub) Attach(s Subscriber) {
	h.mu.Lock()
	h.sessions[s.SessionID()] = s

	byUser := h.userSessions[s.User()]
	if byUser == nil {
		byUser = make(map[string]struct{})
		h.userSessions[s.User()] = byUser
	}
	byUser[s.SessionID()] = struct{}{}

	h.sessionChannels[s.SessionID()] = make(map[string]struct{})
	h.joinLocked(chat.UserChannel(s.User()), s)
	h.mu.Unlock()
}

// Detach removes a connection and all of its channel subscriptions.
func (h *Hub) Detach(s Subscriber) {
	h.mu.Lock()
	h.detachLocked(s.SessionID())
	h.mu.Unlock()
}

// Join subscribes an attached connection to the channel. Untracked
// connections are ignored.
func (h *Hub) Join(channel string, s Subscriber) {
	h.mu.Lock()
	if _, ok := h.sessions[s.SessionID()]; ok {
		h.joinLocked(channel, s)
	}
	h.mu.Unlock()
}

// Leave unsubscribes the connection from the channel.
func (h *Hub) Leave(channel string, s Subscriber) {
	h.mu.Lock()
	h.leaveLocked(channel, s.SessionID())
	h.mu.Unlock()
}

// Broadcast delivers payload to every subscriber of the channel, skipping
// all connections owned by excludeUserID when it is non-empty. It returns
// the number of successful deliveries.
func (h *Hub) Broadcast(channel string, payload []byte, excludeUserID string) int {
	h.mu.RLock()
	members := h.channels[channel]
	snapshot := make([]Subscriber, 0, len(members))
	for _, s := range members {
		if excludeUserID != "" && s.User() == excludeUserID {
			continue
		}
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range snapshot {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to every live connection of the given user.
func (h *Hub) NotifyUser(userID string, payload []byte) int {
	return h.Broadcast(chat.UserChannel(userID), payload, "")
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userSessions[userID]) > 0
}

// Close detaches all connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]Subscriber, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]Subscriber)
	h.userSessions = make(map[string]map[string]struct{})
	h.channels = make(map[string]map[string]Subscriber)
	h.sessionChannels = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		if c, ok := s.(*Connection); ok {
			c.Close(1001, "hub shutdown")
		}
	}
}

func (h *Hub) joinLocked(channel string, s Subscriber) {
	members := h.channels[channel]
	if members == nil {
		members = make(map[string]Subscriber)
		h.channels[channel] = members
	}
	members[s.SessionID()] = s

	subs := h.sessionChannels[s.SessionID()]
	if subs == nil {
		subs = make(map[string]struct{})
		h.sessionChannels[s.SessionID()] = subs
	}
	subs[channel] = struct{}{}
}

func (h *Hub) leaveLocked(channel, sessionID string) {
	members := h.channels[channel]
	if members == nil {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(h.channels, channel)
	}
	if subs, ok := h.sessionChannels[sessionID]; ok {
		delete(subs, channel)
	}
}

func (h *Hub) detachLocked(sessionID string) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if byUser, ok := h.userSessions[s.User()]; ok {
		delete(byUser, sessionID)
		if len(byUser) == 0 {
			delete(h.userSessions, s.User())
		}
	}

	for channel := range h.sessionChannels[sessionID] {
		h.leaveLocked(channel, sessionID)
	}
	delete(h.sessionChannels, sessionID)
}
