package relational

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/storage"
	"github.com/mcoot/gameroom/internal/storage/storagetest"
	"github.com/mcoot/gameroom/internal/testutil"
)

func openTestStore(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "gameroom.db"), testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStorageContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return openTestStore(t)
	})
}

func TestCorruptPosition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := roomRecord{ID: "room-1", GameType: "tictactoe", Player1ID: "p1", Status: "waiting", Position: `{"type":"checkers"}`, Version: 1}
	require.NoError(t, s.db.Create(&rec).Error)

	_, err := s.GetSnapshot(ctx, "room-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrRoomNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameroom.db")
	ctx := context.Background()

	first, err := OpenSQLite(path, testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, first.SavePlayer(ctx, &model.Player{ID: "p1", DisplayName: "Alice"}))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path, testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = second.Close()
	})

	got, err := second.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
}
