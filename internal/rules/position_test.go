package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicTacToePositionJSON(t *testing.T) {
	var pos TicTacToePosition
	pos.cells[0] = MarkX
	pos.cells[4] = MarkO

	data, err := json.Marshal(pos)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"tictactoe","board":["X","","","","O","","","",""]}`, string(data))

	decoded, err := DecodePosition(data)
	require.NoError(t, err)
	assert.Equal(t, pos, decoded)
}

func TestChessPositionJSON(t *testing.T) {
	data, err := json.Marshal(ChessPosition{fen: InitialFEN})
	require.NoError(t, err)

	decoded, err := DecodePosition(data)
	require.NoError(t, err)
	assert.Equal(t, GameChess, decoded.GameType())
	assert.Equal(t, InitialFEN, decoded.(ChessPosition).FEN())
}

func TestDecodePositionErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown type", `{"type":"checkers","board":[]}`},
		{"short board", `{"type":"tictactoe","board":["X"]}`},
		{"bad mark", `{"type":"tictactoe","board":["Z","","","","","","","",""]}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePosition([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	a, err := r.Get(GameTicTacToe)
	require.NoError(t, err)
	assert.Equal(t, GameTicTacToe, a.GameType())

	a, err = r.Get(GameChess)
	require.NoError(t, err)
	assert.Equal(t, GameChess, a.GameType())

	_, err = r.Get("checkers")
	assert.ErrorIs(t, err, ErrUnknownGameType)
}

func TestParseGameType(t *testing.T) {
	gt, err := ParseGameType("chess")
	require.NoError(t, err)
	assert.Equal(t, GameChess, gt)

	_, err = ParseGameType("checkers")
	assert.ErrorIs(t, err, ErrUnknownGameType)
}
