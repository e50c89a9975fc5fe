package rules

import (
	"fmt"
)

// InitialFEN is the standard chess starting position
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Chess is the rules adapter for chess. Legality and terminal detection
// are delegated to a ChessEngine; the first side plays white.
type Chess struct {
	engine ChessEngine
}

var _ Adapter = (*Chess)(nil)

// NewChess creates the chess adapter over the given engine
func NewChess(engine ChessEngine) *Chess {
	return &Chess{engine: engine}
}

func (c *Chess) GameType() GameType {
	return GameChess
}

func (c *Chess) InitialPosition() Position {
	return ChessPosition{fen: InitialFEN}
}

func (c *Chess) Apply(pos Position, move Move, mover Side) (Position, error) {
	p, err := c.position(pos)
	if err != nil {
		return nil, err
	}

	status, err := c.engine.Status(p.fen)
	if err != nil {
		return nil, fmt.Errorf("chess engine status: %w", err)
	}
	if status.Verdict != VerdictOngoing {
		return nil, fmt.Errorf("%w: position is terminal", ErrIllegalMove)
	}
	if status.SideToMove != mover {
		return nil, fmt.Errorf("%w: %s side is not to move", ErrIllegalMove, mover)
	}

	res, err := c.engine.Apply(p.fen, string(move))
	if err != nil {
		return nil, err
	}
	return ChessPosition{fen: res.FEN}, nil
}

// Outcome only declares a winner on checkmate, in which case the winner
// is the side that is not to move
func (c *Chess) Outcome(pos Position) (Outcome, error) {
	p, err := c.position(pos)
	if err != nil {
		return Outcome{}, err
	}

	status, err := c.engine.Status(p.fen)
	if err != nil {
		return Outcome{}, fmt.Errorf("chess engine status: %w", err)
	}

	switch status.Verdict {
	case VerdictCheckmate:
		return Outcome{Kind: Decisive, Winner: status.SideToMove.Other()}, nil
	case VerdictStalemate, VerdictDrawByRule:
		return Outcome{Kind: Draw}, nil
	}
	return Outcome{Kind: Ongoing}, nil
}

func (c *Chess) LegalMoves(pos Position, from string) ([]Move, error) {
	p, err := c.position(pos)
	if err != nil {
		return nil, err
	}

	uci, err := c.engine.LegalMoves(p.fen, from)
	if err != nil {
		return nil, fmt.Errorf("chess engine legal moves: %w", err)
	}
	moves := make([]Move, len(uci))
	for i, m := range uci {
		moves[i] = Move(m)
	}
	return moves, nil
}

func (c *Chess) position(pos Position) (ChessPosition, error) {
	p, ok := pos.(ChessPosition)
	if !ok {
		return ChessPosition{}, fmt.Errorf("%w: got %T", ErrPositionType, pos)
	}
	return p, nil
}
