package storage

import (
	"context"
	"errors"

	"github.com/mcoot/gameroom/internal/model"
)

// Storage defines the interface for data persistence.
//
// Room state is always read and written as a whole snapshot. The two
// conditional writes are the only way a stored room changes, which is
// what serialises concurrent mutations of one room.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Room operations

	// CreateRoom stores a new room and its initial game state atomically.
	// Returns model.ErrRoomExists if the id is taken.
	CreateRoom(ctx context.Context, snap *model.Snapshot) error
	// GetSnapshot returns a consistent room and game state pair
	GetSnapshot(ctx context.Context, id model.RoomID) (*model.Snapshot, error)
	// ClaimSeat writes next only if the stored room's second seat is still
	// empty, otherwise returns model.ErrSeatTaken
	ClaimSeat(ctx context.Context, next *model.Snapshot) error
	// CompareAndSwap writes next only if the stored version equals
	// expectedVersion, otherwise returns model.ErrConflict
	CompareAndSwap(ctx context.Context, next *model.Snapshot, expectedVersion int64) error
	DeleteRoom(ctx context.Context, id model.RoomID) error
}

// DisplayName resolves a player's display name. Identities the store does
// not know resolve to an empty name.
func DisplayName(ctx context.Context, s Storage, id model.PlayerID) (string, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.DisplayName, nil
}
