package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/storage"
	"github.com/mcoot/gameroom/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return New()
	})
}

func TestSavedPlayerIsCopied(t *testing.T) {
	s := New()
	ctx := context.Background()

	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	require.NoError(t, s.SavePlayer(ctx, player))
	player.DisplayName = "Mallory"

	got, err := s.GetPlayer(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
}
