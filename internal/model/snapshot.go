package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcoot/gameroom/internal/rules"
)

// GameState is the mutable board state of a room
type GameState struct {
	RoomID    RoomID
	Position  rules.Position
	TurnOwner PlayerID // cleared once the room is finished
	Version   int64    // incremented on every committed transition
	UpdatedAt time.Time
}

type gameStateJSON struct {
	RoomID    RoomID
	Position  json.RawMessage
	TurnOwner PlayerID
	Version   int64
	UpdatedAt time.Time
}

func (g GameState) MarshalJSON() ([]byte, error) {
	var pos json.RawMessage
	if g.Position != nil {
		data, err := json.Marshal(g.Position)
		if err != nil {
			return nil, err
		}
		pos = data
	}
	return json.Marshal(gameStateJSON{
		RoomID:    g.RoomID,
		Position:  pos,
		TurnOwner: g.TurnOwner,
		Version:   g.Version,
		UpdatedAt: g.UpdatedAt,
	})
}

func (g *GameState) UnmarshalJSON(data []byte) error {
	var raw gameStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var pos rules.Position
	if len(raw.Position) > 0 && string(raw.Position) != "null" {
		p, err := rules.DecodePosition(raw.Position)
		if err != nil {
			return fmt.Errorf("game state %s: %w", raw.RoomID, err)
		}
		pos = p
	}

	*g = GameState{
		RoomID:    raw.RoomID,
		Position:  pos,
		TurnOwner: raw.TurnOwner,
		Version:   raw.Version,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// Snapshot is a consistent (Room, GameState) pair at one version.
// Positions are immutable values, so copying a Snapshot copies the state.
type Snapshot struct {
	Room      Room
	GameState GameState
}

// Version returns the per-room version of the snapshot
func (s Snapshot) Version() int64 {
	return s.GameState.Version
}

// Clone returns an independent copy
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	return &c
}
