package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	qport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
)

// fakeCache is an in-memory cache.Cache without TTL expiry.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	dels []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", cport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		f.dels = append(f.dels, k)
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func (f *fakeCache) deleted(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.dels {
		if k == key {
			return true
		}
	}
	return false
}

// fakeQueue records enqueued tasks.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
}

func (f *fakeQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
	return fmt.Sprintf("task-%d", len(f.tasks)), nil
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) enqueued() []qport.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]qport.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// fakeBroadcaster records channel deliveries and simulates per-user presence.
type fakeBroadcaster struct {
	mu        sync.Mutex
	online    map[string]bool
	delivered map[string][][]byte // channel -> payloads
}

func newFakeBroadcaster(onlineUsers ...string) *fakeBroadcaster {
	b := &fakeBroadcaster{
		online:    make(map[string]bool),
		delivered: make(map[string][][]byte),
	}
	for _, u := range onlineUsers {
		b.online[u] = true
	}
	return b
}

func (b *fakeBroadcaster) Broadcast(channel string, payload []byte, _ string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delivered[channel] = append(b.delivered[channel], payload)
	return len(b.delivered[channel])
}

func (b *fakeBroadcaster) NotifyUser(userID string, payload []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.online[userID] {
		return 0
	}
	key := "user:" + userID
	b.delivered[key] = append(b.delivered[key], payload)
	return 1
}

func (b *fakeBroadcaster) IsOnline(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online[userID]
}

func (b *fakeBroadcaster) payloads(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delivered[channel]
}
