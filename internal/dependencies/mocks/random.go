package mocks

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/gameroom/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Safe for concurrent use.
type MockRandom struct {
	mu sync.Mutex

	// uuids is a queue of results to return from UUID
	uuids []string
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// UUID returns the next queued result, or a fresh UUID if none remaining
func (r *MockRandom) UUID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.uuids) == 0 {
		return uuid.NewString()
	}
	result := r.uuids[0]
	r.uuids = r.uuids[1:]
	return result
}

// QueueUUID adds values to the UUID result queue
func (r *MockRandom) QueueUUID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uuids = append(r.uuids, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uuids = nil
}
