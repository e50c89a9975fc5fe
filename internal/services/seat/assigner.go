// Package seat assigns the second seat of a room
package seat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/gameroom/internal/dependencies/clock"
	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/storage"
)

// Assigner resolves races for the second seat. The store's conditional
// write decides the winner; every loser gets model.ErrSeatTaken.
type Assigner struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a seat assigner
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Assigner {
	return &Assigner{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "seat")),
	}
}

// ClaimSeat seats userID as the second player. changed is false when
// userID already held the seat, in which case nothing is written.
func (a *Assigner) ClaimSeat(ctx context.Context, roomID model.RoomID, userID model.PlayerID) (snap *model.Snapshot, changed bool, err error) {
	current, err := a.storage.GetSnapshot(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	room := &current.Room
	switch {
	case userID == room.Player1ID:
		return nil, false, model.ErrAlreadyPlayer1
	case userID == room.Player2ID:
		return current, false, nil
	case !room.SeatOpen():
		return nil, false, model.ErrSeatTaken
	case room.Status != model.RoomStatusWaiting:
		return nil, false, model.ErrRoomNotWaiting
	}

	name, err := storage.DisplayName(ctx, a.storage, userID)
	if err != nil {
		return nil, false, err
	}

	now := a.clock.Now()
	next := current.Clone()
	next.Room.Player2ID = userID
	next.Room.Player2Name = name
	next.Room.Status = model.RoomStatusPlaying
	next.Room.UpdatedAt = now
	next.GameState.Version = current.GameState.Version + 1
	next.GameState.UpdatedAt = now

	if err := a.storage.ClaimSeat(ctx, next); err != nil {
		if errors.Is(err, model.ErrSeatTaken) {
			a.logger.Info("seat claim lost",
				slog.String("room_id", string(roomID)),
				slog.String("player_id", string(userID)))
		}
		return nil, false, err
	}

	a.logger.Info("seat claimed",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(userID)),
		slog.Int64("version", next.GameState.Version))
	return next, true, nil
}
