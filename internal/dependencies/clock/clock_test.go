package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowIsStorable(t *testing.T) {
	now := New().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%1000)
	assert.Equal(t, now.Round(0), now) // no monotonic reading
}
