package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// winLines are the 3 rows, 3 columns and 2 diagonals
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// TicTacToe is the rules adapter for 3x3 noughts and crosses.
// Moves are cell indices "0" to "8" in row-major order.
type TicTacToe struct{}

var _ Adapter = (*TicTacToe)(nil)

// NewTicTacToe creates the TicTacToe adapter
func NewTicTacToe() *TicTacToe {
	return &TicTacToe{}
}

func (t *TicTacToe) GameType() GameType {
	return GameTicTacToe
}

func (t *TicTacToe) InitialPosition() Position {
	return TicTacToePosition{}
}

func (t *TicTacToe) Apply(pos Position, move Move, mover Side) (Position, error) {
	p, err := t.position(pos)
	if err != nil {
		return nil, err
	}

	idx, err := parseCell(move)
	if err != nil {
		return nil, err
	}
	if p.cells[idx] != MarkEmpty {
		return nil, fmt.Errorf("%w: cell %d is occupied", ErrIllegalMove, idx)
	}

	// cells is an array, so p is already a copy
	p.cells[idx] = markFor(mover)
	return p, nil
}

func (t *TicTacToe) Outcome(pos Position) (Outcome, error) {
	p, err := t.position(pos)
	if err != nil {
		return Outcome{}, err
	}

	for _, line := range winLines {
		m := p.cells[line[0]]
		if m != MarkEmpty && m == p.cells[line[1]] && m == p.cells[line[2]] {
			winner := SideFirst
			if m == MarkO {
				winner = SideSecond
			}
			return Outcome{Kind: Decisive, Winner: winner}, nil
		}
	}

	for _, c := range p.cells {
		if c == MarkEmpty {
			return Outcome{Kind: Ongoing}, nil
		}
	}
	return Outcome{Kind: Draw}, nil
}

// LegalMoves returns the empty cells. from is ignored.
func (t *TicTacToe) LegalMoves(pos Position, _ string) ([]Move, error) {
	p, err := t.position(pos)
	if err != nil {
		return nil, err
	}
	moves := make([]Move, 0, len(p.cells))
	for i, c := range p.cells {
		if c == MarkEmpty {
			moves = append(moves, Move(strconv.Itoa(i)))
		}
	}
	return moves, nil
}

func (t *TicTacToe) position(pos Position) (TicTacToePosition, error) {
	p, ok := pos.(TicTacToePosition)
	if !ok {
		return TicTacToePosition{}, fmt.Errorf("%w: got %T", ErrPositionType, pos)
	}
	return p, nil
}

func parseCell(move Move) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(string(move)))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a cell index", ErrIllegalMove, move)
	}
	if idx < 0 || idx > 8 {
		return 0, fmt.Errorf("%w: cell %d out of range", ErrIllegalMove, idx)
	}
	return idx, nil
}
