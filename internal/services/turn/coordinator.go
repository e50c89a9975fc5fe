// Package turn decides who may move and whose move comes next
package turn

import (
	"github.com/mcoot/gameroom/internal/model"
)

// Coordinator enforces turn order. It holds no state; the turn owner lives
// in the game state it is handed.
type Coordinator struct{}

// New creates a turn coordinator
func New() *Coordinator {
	return &Coordinator{}
}

// Authorize checks that userID may submit a move right now
func (c *Coordinator) Authorize(room *model.Room, state *model.GameState, userID model.PlayerID) error {
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameNotInProgress
	}
	if !room.IsParticipant(userID) {
		return model.ErrSpectator
	}
	if userID != state.TurnOwner {
		return model.ErrNotYourTurn
	}
	return nil
}

// NextTurnOwner returns the participant who moves after the current owner
func (c *Coordinator) NextTurnOwner(room *model.Room, state *model.GameState) model.PlayerID {
	return room.Opponent(state.TurnOwner)
}
