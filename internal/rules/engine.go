package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/notnil/chess"
)

// Verdict is a chess engine's assessment of a position
type Verdict int

const (
	VerdictOngoing Verdict = iota
	VerdictCheckmate
	VerdictStalemate
	// VerdictDrawByRule covers insufficient material and the fifty-move
	// rule. Repetition is not tracked since positions carry no history.
	VerdictDrawByRule
)

// EngineResult describes a position as seen by the chess engine
type EngineResult struct {
	FEN        string
	SideToMove Side
	Verdict    Verdict
}

// ChessEngine is the external chess rules collaborator. Implementations
// must hold no per-game state between calls.
type ChessEngine interface {
	// Apply plays move on fen. Rejected moves return ErrIllegalMove.
	Apply(fen string, move string) (EngineResult, error)
	Status(fen string) (EngineResult, error)
	// LegalMoves lists moves in UCI notation, filtered to those starting
	// on the square from when it is non-empty
	LegalMoves(fen string, from string) ([]string, error)
}

// NotnilEngine implements ChessEngine with github.com/notnil/chess
type NotnilEngine struct{}

var _ ChessEngine = (*NotnilEngine)(nil)

// NewNotnilEngine creates the default chess engine
func NewNotnilEngine() *NotnilEngine {
	return &NotnilEngine{}
}

func (e *NotnilEngine) Apply(fen string, move string) (EngineResult, error) {
	g, err := e.load(fen)
	if err != nil {
		return EngineResult{}, err
	}

	m, err := decodeMove(g.Position(), strings.TrimSpace(move))
	if err != nil {
		return EngineResult{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	if err := g.Move(m); err != nil {
		return EngineResult{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	return describe(g), nil
}

func (e *NotnilEngine) Status(fen string) (EngineResult, error) {
	g, err := e.load(fen)
	if err != nil {
		return EngineResult{}, err
	}
	return describe(g), nil
}

func (e *NotnilEngine) LegalMoves(fen string, from string) ([]string, error) {
	g, err := e.load(fen)
	if err != nil {
		return nil, err
	}

	from = strings.ToLower(strings.TrimSpace(from))
	var moves []string
	for _, m := range g.ValidMoves() {
		if from != "" && m.S1().String() != from {
			continue
		}
		moves = append(moves, m.String())
	}
	return moves, nil
}

func (e *NotnilEngine) load(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return chess.NewGame(opt), nil
}

// decodeMove accepts UCI (e2e4, e7e8q) and falls back to SAN (Nf3)
func decodeMove(pos *chess.Position, s string) (*chess.Move, error) {
	if m, err := (chess.UCINotation{}).Decode(pos, s); err == nil {
		return m, nil
	}
	return (chess.AlgebraicNotation{}).Decode(pos, s)
}

func describe(g *chess.Game) EngineResult {
	pos := g.Position()

	side := SideFirst
	if pos.Turn() == chess.Black {
		side = SideSecond
	}

	method := g.Method()
	if g.Outcome() == chess.NoOutcome {
		method = pos.Status()
	}

	verdict := VerdictOngoing
	switch method {
	case chess.Checkmate:
		verdict = VerdictCheckmate
	case chess.Stalemate:
		verdict = VerdictStalemate
	case chess.InsufficientMaterial, chess.SeventyFiveMoveRule:
		verdict = VerdictDrawByRule
	default:
		if slices.Contains(g.EligibleDraws(), chess.FiftyMoveRule) {
			verdict = VerdictDrawByRule
		}
	}

	return EngineResult{FEN: pos.String(), SideToMove: side, Verdict: verdict}
}
