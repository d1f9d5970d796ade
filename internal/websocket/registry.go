package websocket

import (
	"log/slog"
	"sort"
	"sync"
)

// Channel is a live duplex connection as seen by the registry and the hub
type Channel interface {
	ID() string
	UserID() string
	// Send queues a frame without blocking
	Send(data []byte) error
	Close() error
}

// Registry maps a user ID to its single live channel.
// All operations hold one lock so register, unregister and iteration are atomic
// with respect to each other. Callbacks passed to ForEachExcept must not call
// back into the registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Channel
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Channel),
	}
}

// Register stores ch for userID. A channel already stored for the same user is
// superseded: it is removed and closed in the background. The superseded
// channel is returned.
func (r *Registry) Register(userID string, ch Channel) Channel {
	r.mu.Lock()
	previous, existed := r.entries[userID]
	r.entries[userID] = ch
	r.mu.Unlock()

	if !existed || previous == ch {
		return nil
	}

	slog.Info("Superseding existing connection", "userID", userID, "previousID", previous.ID(), "clientID", ch.ID())
	go closeChannel(previous)
	return previous
}

// closeChannel may block for up to writeWait on a stalled peer, so callers on
// the hub loop run it in its own goroutine
func closeChannel(ch Channel) {
	if err := ch.Close(); err != nil {
		slog.Debug("Error closing connection", "userID", ch.UserID(), "clientID", ch.ID(), "error", err)
	}
}

// Unregister removes the entry for userID only if it still holds ch.
// Reports whether an entry was removed.
func (r *Registry) Unregister(userID string, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[userID]
	if !ok || current != ch {
		return false
	}
	delete(r.entries, userID)
	return true
}

// ForEachExcept calls fn for every registered channel except the one owned by userID
func (r *Registry) ForEachExcept(userID string, fn func(userID string, ch Channel)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, ch := range r.entries {
		if id == userID {
			continue
		}
		fn(id, ch)
	}
}

// Get returns the channel registered for userID
func (r *Registry) Get(userID string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.entries[userID]
	return ch, ok
}

// Size is for diagnostics only
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// UserIDs returns the connected user IDs in sorted order
func (r *Registry) UserIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// CloseAll removes every channel and closes them concurrently
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]Channel)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, ch := range entries {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			closeChannel(ch)
		}(ch)
	}
	wg.Wait()
}
