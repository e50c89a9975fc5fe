package rules

import (
	"encoding/json"
	"fmt"
)

// Position is the variant-specific board state. The set of implementations
// is closed: only this package constructs or destructures positions.
type Position interface {
	GameType() GameType
	isPosition()
}

// Mark is the content of a TicTacToe cell
type Mark uint8

const (
	MarkEmpty Mark = iota
	MarkX
	MarkO
)

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	}
	return ""
}

func markFromString(s string) (Mark, error) {
	switch s {
	case "":
		return MarkEmpty, nil
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	}
	return MarkEmpty, fmt.Errorf("invalid mark %q", s)
}

func markFor(side Side) Mark {
	if side == SideFirst {
		return MarkX
	}
	return MarkO
}

// TicTacToePosition is a 3x3 grid in row-major order
type TicTacToePosition struct {
	cells [9]Mark
}

func (TicTacToePosition) GameType() GameType { return GameTicTacToe }
func (TicTacToePosition) isPosition()        {}

// Cell returns the mark at index i (0-8)
func (p TicTacToePosition) Cell(i int) Mark {
	return p.cells[i]
}

// Marks returns the grid as display strings
func (p TicTacToePosition) Marks() []string {
	out := make([]string, len(p.cells))
	for i, c := range p.cells {
		out[i] = c.String()
	}
	return out
}

// ChessPosition holds a chess position as FEN
type ChessPosition struct {
	fen string
}

func (ChessPosition) GameType() GameType { return GameChess }
func (ChessPosition) isPosition()        {}

// FEN returns the position in Forsyth-Edwards notation
func (p ChessPosition) FEN() string {
	return p.fen
}

type positionEnvelope struct {
	Type  GameType        `json:"type"`
	Board json.RawMessage `json:"board"`
}

func (p TicTacToePosition) MarshalJSON() ([]byte, error) {
	board, err := json.Marshal(p.Marks())
	if err != nil {
		return nil, err
	}
	return json.Marshal(positionEnvelope{Type: GameTicTacToe, Board: board})
}

func (p ChessPosition) MarshalJSON() ([]byte, error) {
	board, err := json.Marshal(p.fen)
	if err != nil {
		return nil, err
	}
	return json.Marshal(positionEnvelope{Type: GameChess, Board: board})
}

// DecodePosition parses the tagged JSON form written by MarshalJSON
func DecodePosition(data []byte) (Position, error) {
	var env positionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode position: %w", err)
	}

	switch env.Type {
	case GameTicTacToe:
		var marks []string
		if err := json.Unmarshal(env.Board, &marks); err != nil {
			return nil, fmt.Errorf("decode tictactoe board: %w", err)
		}
		if len(marks) != 9 {
			return nil, fmt.Errorf("decode tictactoe board: expected 9 cells, got %d", len(marks))
		}
		var pos TicTacToePosition
		for i, s := range marks {
			m, err := markFromString(s)
			if err != nil {
				return nil, fmt.Errorf("decode tictactoe board: %w", err)
			}
			pos.cells[i] = m
		}
		return pos, nil
	case GameChess:
		var fen string
		if err := json.Unmarshal(env.Board, &fen); err != nil {
			return nil, fmt.Errorf("decode chess board: %w", err)
		}
		return ChessPosition{fen: fen}, nil
	}
	return nil, fmt.Errorf("decode position: %w: %q", ErrUnknownGameType, env.Type)
}
