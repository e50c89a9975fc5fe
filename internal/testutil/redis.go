package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Miniredis starts an in-process Redis server and returns a client for it.
// Both are closed when the test finishes.
func Miniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mini, client
}
