// Package conntrack enforces the at-most-one-active-attachment-per-role
// invariant (spec.md 3) and tracks per-client last-activity for the
// cleanup task's idle-client eviction (spec.md 4.10).
package conntrack

import (
	"sync"
	"time"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// Tracker records one active connection per ClientId. A second Connect for
// an already-registered id is rejected (spec.md 4.8: "rejects duplicate
// client_id").
type Tracker struct {
	mu      sync.Mutex
	clients map[ids.ClientId]time.Time
}

// New builds an empty tracker.
func New() *Tracker {
	return &Tracker{clients: make(map[ids.ClientId]time.Time)}
}

// Connect registers a fresh attachment, rejecting a duplicate.
func (t *Tracker) Connect(client ids.ClientId) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.clients[client]; ok {
		return apperrors.New(apperrors.DuplicateClient, "client %s is already connected", client)
	}
	t.clients[client] = time.Now()
	return nil
}

// Disconnect removes a client's attachment.
func (t *Tracker) Disconnect(client ids.ClientId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.clients, client)
}

// Touch bumps a client's last-activity timestamp.
func (t *Tracker) Touch(client ids.ClientId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.clients[client]; ok {
		t.clients[client] = time.Now()
	}
}

// IsConnected reports whether client currently holds an attachment.
func (t *Tracker) IsConnected(client ids.ClientId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.clients[client]
	return ok
}

// GetInactiveClients returns clients idle past timeout (spec.md 4.5's
// per-client projection of the lobby activity query).
func (t *Tracker) GetInactiveClients(timeout time.Duration) []ids.ClientId {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	var out []ids.ClientId
	for c, last := range t.clients {
		if now.Sub(last) > timeout {
			out = append(out, c)
		}
	}
	return out
}
