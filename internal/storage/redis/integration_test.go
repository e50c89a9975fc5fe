//go:build integration

package redis

import (
	"testing"

	"github.com/mcoot/gameroom/internal/storage"
	"github.com/mcoot/gameroom/internal/storage/storagetest"
	"github.com/mcoot/gameroom/internal/testutil"
)

// Runs the storage contract against a real Redis server in docker:
// go test -tags integration ./internal/storage/redis/...
func TestStorageContractDocker(t *testing.T) {
	client := testutil.DockerRedis(t)

	storagetest.Run(t, func(t *testing.T) storage.Storage {
		if err := client.FlushDB(t.Context()).Err(); err != nil {
			t.Fatalf("flush: %v", err)
		}
		return NewWithClient(client, DefaultConfig())
	})
}
