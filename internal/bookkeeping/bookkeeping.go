// Package bookkeeping tracks the single piece of per-session connection
// state the security gate needs: the most recently established inbound
// connection, so it can be closed if the peer later fails the IP gate.
package bookkeeping

import "sync"

// Holder is a mutex-guarded, session-owned slot for the current inbound
// connection ID (network.Conn.ID()). Deliberately not a package-level
// global: each Session constructs its own Holder, so concurrent sessions
// in the same process (e.g. in tests) don't interfere with each other.
type Holder struct {
	mu  sync.RWMutex
	id  string
	set bool
}

// NewHolder returns an empty Holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Save records id as the current inbound connection.
func (h *Holder) Save(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = id
	h.set = true
}

// ID returns the most recently saved connection ID, and whether one has
// been saved yet.
func (h *Holder) ID() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.id, h.set
}

// Clear resets the holder to empty.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = ""
	h.set = false
}
