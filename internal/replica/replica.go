// Package replica keeps a subscriber-side copy of room state. Deliveries
// may be duplicated or reordered; applying only strictly newer versions
// makes the copy converge on the latest commit regardless.
package replica

import "sync"

// Versioned is anything carrying a per-room version
type Versioned interface {
	Version() int64
}

// Replica holds the newest value applied so far
type Replica[T Versioned] struct {
	mu      sync.RWMutex
	current T
	applied bool
}

// New creates an empty replica
func New[T Versioned]() *Replica[T] {
	return &Replica[T]{}
}

// Apply stores v if it is newer than the current value and reports
// whether it did
func (r *Replica[T]) Apply(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied && v.Version() <= r.current.Version() {
		return false
	}
	r.current = v
	r.applied = true
	return true
}

// Current returns the newest value, or false if nothing was applied yet
func (r *Replica[T]) Current() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.applied
}

// Version returns the version of the current value, or 0
func (r *Replica[T]) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.applied {
		return 0
	}
	return r.current.Version()
}
