package factory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/replica"
	"github.com/mcoot/gameroom/internal/rules"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *IntegrationSuite) guest(name string) model.PlayerID {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session.PlayerID
}

// Test: room creation through to a decisive tictactoe result, watched by a
// spectator who joined late
func (s *IntegrationSuite) TestCompleteTicTacToeGame() {
	s.app.MockRandom.QueueUUID("ROOM01")
	alice, bob, carol := s.guest("Alice"), s.guest("Bob"), s.guest("Carol")

	// Step 1: Alice opens a room
	snap, err := s.app.Engine.CreateRoom(s.ctx, rules.GameTicTacToe, alice)
	s.Require().NoError(err)
	s.Equal(model.RoomID("ROOM01"), snap.Room.ID)
	s.Equal("Alice", snap.Room.Player1Name)

	// Step 2: Bob takes the second seat, Carol is too late
	snap, err = s.app.Engine.ClaimSeat(s.ctx, "ROOM01", bob)
	s.Require().NoError(err)
	s.Equal("Bob", snap.Room.Player2Name)
	_, err = s.app.Engine.ClaimSeat(s.ctx, "ROOM01", carol)
	s.ErrorIs(err, model.ErrSeatTaken)

	// Step 3: Carol watches instead
	sub, err := s.app.Engine.Subscribe(s.ctx, "ROOM01")
	s.Require().NoError(err)
	defer sub.Close()

	// Step 4: play X on the left column
	moves := []struct {
		player model.PlayerID
		move   rules.Move
	}{
		{alice, "0"}, {bob, "1"}, {alice, "3"}, {bob, "2"}, {alice, "6"},
	}
	for _, m := range moves {
		snap, err = s.app.Engine.SubmitMove(s.ctx, "ROOM01", m.player, m.move)
		s.Require().NoError(err)
	}
	s.Equal(model.RoomStatusFinished, snap.Room.Status)
	s.Equal(alice, snap.Room.WinnerID)

	// Step 5: Carol's copy converges on the final state
	r := replica.New[model.Snapshot]()
	deadline := time.After(2 * time.Second)
	for r.Version() < snap.Version() {
		select {
		case update := <-sub.Updates():
			r.Apply(update)
		case <-deadline:
			s.FailNow("spectator did not converge")
		}
	}
	final, _ := r.Current()
	s.Equal(snap.Room, final.Room)
	s.Equal(snap.GameState.Position, final.GameState.Position)

	// Step 6: the finished room rejects further moves
	_, err = s.app.Engine.SubmitMove(s.ctx, "ROOM01", bob, "8")
	s.ErrorIs(err, model.ErrGameAlreadyFinished)
}

// Test: a chess game to checkmate credits the mating side's player
func (s *IntegrationSuite) TestChessCheckmate() {
	alice, bob := s.guest("Alice"), s.guest("Bob")

	snap, err := s.app.Engine.CreateRoom(s.ctx, rules.GameChess, alice)
	s.Require().NoError(err)
	roomID := snap.Room.ID
	_, err = s.app.Engine.ClaimSeat(s.ctx, roomID, bob)
	s.Require().NoError(err)

	moves, err := s.app.Engine.LegalMoves(s.ctx, roomID, "g1")
	s.Require().NoError(err)
	s.ElementsMatch([]rules.Move{"g1f3", "g1h3"}, moves)

	// Scholar's mate
	for i, m := range []rules.Move{"e2e4", "e7e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7"} {
		player := alice
		if i%2 == 1 {
			player = bob
		}
		snap, err = s.app.Engine.SubmitMove(s.ctx, roomID, player, m)
		s.Require().NoError(err, "move %s", m)
	}

	s.Equal(model.RoomStatusFinished, snap.Room.Status)
	s.Equal(alice, snap.Room.WinnerID)
}

// Test: concurrent seat claims through the fully wired app
func (s *IntegrationSuite) TestSeatRace() {
	alice := s.guest("Alice")
	snap, err := s.app.Engine.CreateRoom(s.ctx, rules.GameTicTacToe, alice)
	s.Require().NoError(err)

	const claimants = 8
	ids := make([]model.PlayerID, claimants)
	for i := range ids {
		ids[i] = s.guest("Guest")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.app.Engine.ClaimSeat(s.ctx, snap.Room.ID, id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
	current, err := s.app.Engine.GetRoom(s.ctx, snap.Room.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, current.Room.Status)
	s.Contains(ids, current.Room.Player2ID)
}
