// Package storagetest holds the behaviour every storage backend must share.
// Backends run it from their own tests with a constructor for a fresh store.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/rules"
	"github.com/mcoot/gameroom/internal/storage"
)

// Suite is the shared storage contract suite
type Suite struct {
	suite.Suite

	// NewStore returns an empty store. Cleanup should be registered on t.
	NewStore func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	now   time.Time
}

// Run runs the contract suite against a backend
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	suite.Run(t, &Suite{NewStore: newStore})
}

func (s *Suite) SetupTest() {
	s.store = s.NewStore(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newRoom(id model.RoomID) *model.Snapshot {
	return &model.Snapshot{
		Room: model.Room{
			ID:          id,
			GameType:    rules.GameTicTacToe,
			Player1ID:   "player-1",
			Player1Name: "Alice",
			Status:      model.RoomStatusWaiting,
			CreatedAt:   s.now,
			UpdatedAt:   s.now,
		},
		GameState: model.GameState{
			RoomID:    id,
			Position:  rules.NewTicTacToe().InitialPosition(),
			TurnOwner: "player-1",
			Version:   1,
			UpdatedAt: s.now,
		},
	}
}

func (s *Suite) seated(snap *model.Snapshot, player model.PlayerID) *model.Snapshot {
	next := snap.Clone()
	next.Room.Player2ID = player
	next.Room.Player2Name = string(player)
	next.Room.Status = model.RoomStatusPlaying
	next.GameState.Version = snap.GameState.Version + 1
	return next
}

func (s *Suite) moved(snap *model.Snapshot, cell string) *model.Snapshot {
	adapter := rules.NewTicTacToe()
	side, _ := snap.Room.SideOf(snap.GameState.TurnOwner)
	pos, err := adapter.Apply(snap.GameState.Position, rules.Move(cell), side)
	s.Require().NoError(err)

	next := snap.Clone()
	next.GameState.Position = pos
	next.GameState.TurnOwner = snap.Room.Opponent(snap.GameState.TurnOwner)
	next.GameState.Version = snap.GameState.Version + 1
	return next
}

func (s *Suite) assertSnapshot(expected, actual *model.Snapshot) {
	s.Equal(expected.Room.ID, actual.Room.ID)
	s.Equal(expected.Room.GameType, actual.Room.GameType)
	s.Equal(expected.Room.Player1ID, actual.Room.Player1ID)
	s.Equal(expected.Room.Player2ID, actual.Room.Player2ID)
	s.Equal(expected.Room.Player1Name, actual.Room.Player1Name)
	s.Equal(expected.Room.Player2Name, actual.Room.Player2Name)
	s.Equal(expected.Room.Status, actual.Room.Status)
	s.Equal(expected.Room.WinnerID, actual.Room.WinnerID)
	s.True(expected.Room.CreatedAt.Equal(actual.Room.CreatedAt))
	s.Equal(expected.GameState.RoomID, actual.GameState.RoomID)
	s.Equal(expected.GameState.Position, actual.GameState.Position)
	s.Equal(expected.GameState.TurnOwner, actual.GameState.TurnOwner)
	s.Equal(expected.GameState.Version, actual.GameState.Version)
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: s.now}
	s.Require().NoError(s.store.SavePlayer(s.ctx, player))

	got, err := s.store.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.False(got.IsGuest)
}

func (s *Suite) TestSavePlayerOverwrites() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: s.now}))
	s.Require().NoError(s.store.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alicia", CreatedAt: s.now}))

	got, err := s.store.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alicia", got.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.store.GetPlayer(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: s.now}))
	s.Require().NoError(s.store.DeletePlayer(s.ctx, "player-1"))

	_, err := s.store.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestRegisteredPlayerByUsername() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: s.now}))
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}
	s.Require().NoError(s.store.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.store.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)
	s.Equal("hash", got.PasswordHash)

	got, err = s.store.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	_, err = s.store.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Room tests

func (s *Suite) TestCreateAndGetRoom() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.assertSnapshot(snap, got)
}

func (s *Suite) TestCreateRoomTwiceFails() {
	s.Require().NoError(s.store.CreateRoom(s.ctx, s.newRoom("room-1")))

	err := s.store.CreateRoom(s.ctx, s.newRoom("room-1"))
	s.ErrorIs(err, model.ErrRoomExists)
}

func (s *Suite) TestGetSnapshotNotFound() {
	_, err := s.store.GetSnapshot(s.ctx, "missing")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestReturnedSnapshotIsACopy() {
	s.Require().NoError(s.store.CreateRoom(s.ctx, s.newRoom("room-1")))

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	got.Room.Status = model.RoomStatusFinished

	again, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusWaiting, again.Room.Status)
}

func (s *Suite) TestClaimSeatOnce() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))

	s.Require().NoError(s.store.ClaimSeat(s.ctx, s.seated(snap, "player-2")))

	err := s.store.ClaimSeat(s.ctx, s.seated(snap, "player-3"))
	s.ErrorIs(err, model.ErrSeatTaken)

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-2"), got.Room.Player2ID)
	s.Equal(model.RoomStatusPlaying, got.Room.Status)
	s.Equal(int64(2), got.GameState.Version)
}

func (s *Suite) TestClaimSeatMissingRoom() {
	err := s.store.ClaimSeat(s.ctx, s.seated(s.newRoom("missing"), "player-2"))
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestConcurrentClaimSeatHasOneWinner() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))

	const claimants = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []model.PlayerID
		failed  []error
	)
	for i := range claimants {
		wg.Add(1)
		go func(id model.PlayerID) {
			defer wg.Done()
			err := s.store.ClaimSeat(s.ctx, s.seated(snap, id))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, id)
			} else if !errors.Is(err, model.ErrSeatTaken) {
				failed = append(failed, err)
			}
		}(model.PlayerID(fmt.Sprintf("claimant-%d", i)))
	}
	wg.Wait()

	s.Empty(failed)
	s.Require().Len(winners, 1)

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(winners[0], got.Room.Player2ID)
}

func (s *Suite) TestCompareAndSwap() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))
	playing := s.seated(snap, "player-2")
	s.Require().NoError(s.store.ClaimSeat(s.ctx, playing))

	next := s.moved(playing, "4")
	s.Require().NoError(s.store.CompareAndSwap(s.ctx, next, playing.GameState.Version))

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.assertSnapshot(next, got)
}

func (s *Suite) TestCompareAndSwapStaleVersion() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))
	playing := s.seated(snap, "player-2")
	s.Require().NoError(s.store.ClaimSeat(s.ctx, playing))

	err := s.store.CompareAndSwap(s.ctx, s.moved(playing, "4"), snap.GameState.Version)
	s.ErrorIs(err, model.ErrConflict)

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.assertSnapshot(playing, got)
}

func (s *Suite) TestCompareAndSwapMissingRoom() {
	err := s.store.CompareAndSwap(s.ctx, s.newRoom("missing"), 1)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestConcurrentCompareAndSwapHasOneWinner() {
	snap := s.newRoom("room-1")
	s.Require().NoError(s.store.CreateRoom(s.ctx, snap))
	playing := s.seated(snap, "player-2")
	s.Require().NoError(s.store.ClaimSeat(s.ctx, playing))

	cells := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failed    []error
	)
	for _, cell := range cells {
		next := s.moved(playing, cell)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CompareAndSwap(s.ctx, next, playing.GameState.Version)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if !errors.Is(err, model.ErrConflict) {
				failed = append(failed, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(failed)
	s.Equal(1, successes)

	got, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(playing.GameState.Version+1, got.GameState.Version)
}

func (s *Suite) TestDeleteRoom() {
	s.Require().NoError(s.store.CreateRoom(s.ctx, s.newRoom("room-1")))
	s.Require().NoError(s.store.DeleteRoom(s.ctx, "room-1"))

	_, err := s.store.GetSnapshot(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
