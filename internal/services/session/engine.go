// Package session is the single authority for room state transitions
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/gameroom/internal/broadcast"
	"github.com/mcoot/gameroom/internal/dependencies/clock"
	"github.com/mcoot/gameroom/internal/dependencies/random"
	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/rules"
	"github.com/mcoot/gameroom/internal/services/seat"
	"github.com/mcoot/gameroom/internal/services/turn"
	"github.com/mcoot/gameroom/internal/storage"
)

// Engine creates rooms, seats players and applies moves. Every committed
// transition bumps the room version and is published to subscribers.
type Engine struct {
	storage     storage.Storage
	rules       *rules.Registry
	seats       *seat.Assigner
	turns       *turn.Coordinator
	broadcaster broadcast.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewEngine creates a new session engine
func NewEngine(
	storage storage.Storage,
	registry *rules.Registry,
	broadcaster broadcast.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		storage:     storage,
		rules:       registry,
		seats:       seat.New(storage, clock, logger),
		turns:       turn.New(),
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "session")),
	}
}

// CreateRoom opens a room of the given game type with creatorID in the
// first seat. The creator moves first.
func (e *Engine) CreateRoom(ctx context.Context, gameType rules.GameType, creatorID model.PlayerID) (*model.Snapshot, error) {
	adapter, err := e.rules.Get(gameType)
	if err != nil {
		return nil, err
	}

	name, err := storage.DisplayName(ctx, e.storage, creatorID)
	if err != nil {
		return nil, e.unexpected("resolve creator", err)
	}

	now := e.clock.Now()
	id := model.RoomID(e.random.UUID())
	snap := &model.Snapshot{
		Room: model.Room{
			ID:          id,
			GameType:    gameType,
			Player1ID:   creatorID,
			Player1Name: name,
			Status:      model.RoomStatusWaiting,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		GameState: model.GameState{
			RoomID:    id,
			Position:  adapter.InitialPosition(),
			TurnOwner: creatorID,
			Version:   1,
			UpdatedAt: now,
		},
	}

	if err := e.storage.CreateRoom(ctx, snap); err != nil {
		if errors.Is(err, model.ErrRoomExists) {
			return nil, err
		}
		return nil, e.unexpected("create room", err)
	}

	e.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.String("game_type", string(gameType)),
		slog.String("player_id", string(creatorID)))
	return snap, nil
}

// GetRoom returns the current room and game state
func (e *Engine) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Snapshot, error) {
	return e.storage.GetSnapshot(ctx, roomID)
}

// ClaimSeat seats userID as the second player and starts the game.
// Losing a race for the seat returns model.ErrSeatTaken, and the caller
// should continue as a spectator.
func (e *Engine) ClaimSeat(ctx context.Context, roomID model.RoomID, userID model.PlayerID) (*model.Snapshot, error) {
	snap, changed, err := e.seats.ClaimSeat(ctx, roomID, userID)
	if err != nil {
		if model.Classify(err) == model.CategoryUnexpected {
			return nil, e.unexpected("claim seat", err)
		}
		return nil, err
	}
	if changed {
		e.publish(ctx, snap)
	}
	return snap, nil
}

// SubmitMove validates and commits one move. A concurrent commit to the
// same room makes it fail with model.ErrConflict; it is never retried.
func (e *Engine) SubmitMove(ctx context.Context, roomID model.RoomID, userID model.PlayerID, move rules.Move) (*model.Snapshot, error) {
	current, err := e.storage.GetSnapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room, state := &current.Room, &current.GameState

	if room.Status == model.RoomStatusFinished {
		return nil, model.ErrGameAlreadyFinished
	}
	if err := e.turns.Authorize(room, state, userID); err != nil {
		return nil, err
	}

	adapter, err := e.rules.Get(room.GameType)
	if err != nil {
		return nil, e.unexpected("resolve rules", err)
	}
	side, _ := room.SideOf(userID)

	pos, err := adapter.Apply(state.Position, move, side)
	if err != nil {
		if errors.Is(err, rules.ErrIllegalMove) {
			return nil, err
		}
		return nil, e.unexpected("apply move", err)
	}

	outcome, err := adapter.Outcome(pos)
	if err != nil {
		return nil, e.unexpected("evaluate outcome", err)
	}

	now := e.clock.Now()
	next := current.Clone()
	next.GameState.Position = pos
	next.GameState.TurnOwner = e.turns.NextTurnOwner(room, state)
	next.GameState.Version = state.Version + 1
	next.GameState.UpdatedAt = now
	next.Room.UpdatedAt = now
	if outcome.IsTerminal() {
		next.Room.Status = model.RoomStatusFinished
		next.GameState.TurnOwner = ""
		if outcome.Kind == rules.Decisive {
			next.Room.WinnerID = room.PlayerFor(outcome.Winner)
		}
	}

	if err := e.storage.CompareAndSwap(ctx, next, state.Version); err != nil {
		if errors.Is(err, model.ErrConflict) {
			e.logger.Info("move lost to concurrent commit",
				slog.String("room_id", string(roomID)),
				slog.String("player_id", string(userID)),
				slog.Int64("version", state.Version))
			return nil, err
		}
		return nil, e.unexpected("commit move", err)
	}

	e.logger.Info("move committed",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(userID)),
		slog.String("move", string(move)),
		slog.Int64("version", next.GameState.Version))
	if next.Room.Status == model.RoomStatusFinished {
		e.logger.Info("game finished",
			slog.String("room_id", string(roomID)),
			slog.String("winner_id", string(next.Room.WinnerID)))
	}

	e.publish(ctx, next)
	return next, nil
}

// LegalMoves lists the moves available to the side to move. from narrows
// the list to one origin square where the game has that notion.
func (e *Engine) LegalMoves(ctx context.Context, roomID model.RoomID, from string) ([]rules.Move, error) {
	current, err := e.storage.GetSnapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if current.Room.Status == model.RoomStatusFinished {
		return []rules.Move{}, nil
	}

	adapter, err := e.rules.Get(current.Room.GameType)
	if err != nil {
		return nil, e.unexpected("resolve rules", err)
	}
	moves, err := adapter.LegalMoves(current.GameState.Position, from)
	if err != nil {
		return nil, e.unexpected("list legal moves", err)
	}
	return moves, nil
}

// Subscribe follows a room's snapshots, starting with the current one.
// The subscription ends when ctx is cancelled or it is closed.
func (e *Engine) Subscribe(ctx context.Context, roomID model.RoomID) (*broadcast.Subscription, error) {
	// Fail fast for unknown rooms before registering anything
	if _, err := e.storage.GetSnapshot(ctx, roomID); err != nil {
		return nil, err
	}
	return e.broadcaster.Subscribe(ctx, roomID, func(ctx context.Context) (*model.Snapshot, error) {
		return e.storage.GetSnapshot(ctx, roomID)
	})
}

// publish announces a committed snapshot. The commit already happened, so
// a broadcast failure is logged rather than returned.
func (e *Engine) publish(ctx context.Context, snap *model.Snapshot) {
	if err := e.broadcaster.Publish(ctx, snap); err != nil {
		e.logger.Error("snapshot publish failed",
			slog.String("room_id", string(snap.Room.ID)),
			slog.Int64("version", snap.GameState.Version),
			slog.String("error", err.Error()))
	}
}

func (e *Engine) unexpected(op string, err error) error {
	e.logger.Error("session operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", op, err)
}

// EngineInterface is the session surface used by transports
type EngineInterface interface {
	CreateRoom(ctx context.Context, gameType rules.GameType, creatorID model.PlayerID) (*model.Snapshot, error)
	GetRoom(ctx context.Context, roomID model.RoomID) (*model.Snapshot, error)
	ClaimSeat(ctx context.Context, roomID model.RoomID, userID model.PlayerID) (*model.Snapshot, error)
	SubmitMove(ctx context.Context, roomID model.RoomID, userID model.PlayerID, move rules.Move) (*model.Snapshot, error)
	LegalMoves(ctx context.Context, roomID model.RoomID, from string) ([]rules.Move, error)
	Subscribe(ctx context.Context, roomID model.RoomID) (*broadcast.Subscription, error)
}

var _ EngineInterface = (*Engine)(nil)
