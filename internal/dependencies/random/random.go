package random

import (
	"github.com/google/uuid"
)

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// UUID returns a random (version 4) UUID string
	UUID() string
}

// CryptoRandom implements Random using crypto/rand via google/uuid
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// UUID returns a random (version 4) UUID string
func (r *CryptoRandom) UUID() string {
	return uuid.NewString()
}
