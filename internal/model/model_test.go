package model

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gameroom/internal/rules"
)

func TestRoomRoles(t *testing.T) {
	room := Room{Player1ID: "p1", Player2ID: "p2"}

	tests := []struct {
		id   PlayerID
		role Role
		side rules.Side
		ok   bool
	}{
		{"p1", RolePlayer1, rules.SideFirst, true},
		{"p2", RolePlayer2, rules.SideSecond, true},
		{"p3", RoleSpectator, 0, false},
		{"", RoleSpectator, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.role, room.RoleOf(tt.id))
			side, ok := room.SideOf(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.side, side)
		})
	}

	assert.Equal(t, PlayerID("p2"), room.Opponent("p1"))
	assert.Equal(t, PlayerID("p1"), room.Opponent("p2"))
	assert.Equal(t, PlayerID("p2"), room.PlayerFor(rules.SideSecond))
}

func TestOpenSeatIsNotAParticipant(t *testing.T) {
	room := Room{Player1ID: "p1"}

	assert.True(t, room.SeatOpen())
	assert.False(t, room.IsParticipant(""))
	assert.Equal(t, RoleSpectator, room.RoleOf("p2"))
}

func TestSnapshotJSONKeepsPosition(t *testing.T) {
	adapter := rules.NewTicTacToe()
	pos, err := adapter.Apply(adapter.InitialPosition(), "4", rules.SideFirst)
	require.NoError(t, err)

	snap := Snapshot{
		Room: Room{ID: "r1", GameType: rules.GameTicTacToe, Player1ID: "p1", Status: RoomStatusWaiting},
		GameState: GameState{
			RoomID:    "r1",
			Position:  pos,
			TurnOwner: "p1",
			Version:   3,
			UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap, decoded)
	assert.Equal(t, int64(3), decoded.Version())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		category Category
	}{
		{ErrSpectator, CategoryAuthorization},
		{ErrNotYourTurn, CategoryAuthorization},
		{ErrGameNotInProgress, CategoryState},
		{ErrGameAlreadyFinished, CategoryState},
		{ErrSeatTaken, CategoryState},
		{fmt.Errorf("claim: %w", ErrRoomNotWaiting), CategoryState},
		{rules.ErrIllegalMove, CategoryValidation},
		{ErrUnknownGameType, CategoryValidation},
		{ErrConflict, CategoryConcurrency},
		{ErrRoomNotFound, CategoryNotFound},
		{fmt.Errorf("dial tcp: connection refused"), CategoryUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.category, Classify(tt.err))
		})
	}
}
