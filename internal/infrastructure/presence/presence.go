// Package presence tracks which accounts hold a live session against this
// process. The set is never persisted: presence describes the current
// process's connections, not account history.
package presence

import (
	"sync"

	"github.com/staffdesk/identity-api/internal/api/metrics"
)

// Tracker is an in-memory presence set keyed by username.
type Tracker struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{online: make(map[string]struct{})}
}

func (t *Tracker) MarkOnline(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online[username] = struct{}{}
	metrics.OnlineUsers.Set(float64(len(t.online)))
}

// MarkOffline is idempotent: removing an absent username is a no-op.
func (t *Tracker) MarkOffline(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.online, username)
	metrics.OnlineUsers.Set(float64(len(t.online)))
}

func (t *Tracker) IsOnline(username string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[username]
	return ok
}

// Clear empties the whole set. Used by the system reset.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = make(map[string]struct{})
	metrics.OnlineUsers.Set(0)
}
