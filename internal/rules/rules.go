// Package rules holds the per-variant game rules. Adapters are pure: they
// take a position and a move and return a new position, never mutating
// their input and never touching storage.
package rules

import (
	"errors"
	"fmt"
)

// GameType identifies a supported game variant
type GameType string

const (
	GameTicTacToe GameType = "tictactoe"
	GameChess     GameType = "chess"
)

// ParseGameType validates a wire value
func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GameTicTacToe, GameChess:
		return GameType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
}

// Side is a seat in the game, independent of who occupies it.
// The first side is X in TicTacToe and white in Chess.
type Side int

const (
	SideFirst Side = iota + 1
	SideSecond
)

// Other returns the opposing side
func (s Side) Other() Side {
	if s == SideFirst {
		return SideSecond
	}
	return SideFirst
}

func (s Side) String() string {
	switch s {
	case SideFirst:
		return "first"
	case SideSecond:
		return "second"
	}
	return "unknown"
}

// Move is a move in the variant's own notation
type Move string

// OutcomeKind describes whether a position is terminal
type OutcomeKind int

const (
	Ongoing OutcomeKind = iota
	Decisive
	Draw
)

// Outcome is the terminal verdict for a position. Winner is only meaningful
// when Kind is Decisive.
type Outcome struct {
	Kind   OutcomeKind
	Winner Side
}

// IsTerminal reports whether the game is over
func (o Outcome) IsTerminal() bool {
	return o.Kind != Ongoing
}

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrUnknownGameType = errors.New("unknown game type")
	ErrPositionType    = errors.New("position does not belong to this game type")
)

// Adapter implements the rules for one game variant
type Adapter interface {
	GameType() GameType
	InitialPosition() Position
	// Apply returns the position after mover plays move, or ErrIllegalMove
	Apply(pos Position, move Move, mover Side) (Position, error)
	Outcome(pos Position) (Outcome, error)
	// LegalMoves lists the moves available to the side to move. A non-empty
	// from restricts the list to moves starting there, where the variant
	// has that notion.
	LegalMoves(pos Position, from string) ([]Move, error)
}

// Registry resolves adapters by game type
type Registry struct {
	adapters map[GameType]Adapter
}

// NewRegistry creates a registry over the given adapters
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[GameType]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.GameType()] = a
	}
	return r
}

// DefaultRegistry returns a registry with every built-in variant
func DefaultRegistry() *Registry {
	return NewRegistry(NewTicTacToe(), NewChess(NewNotnilEngine()))
}

// Get returns the adapter for a game type
func (r *Registry) Get(gameType GameType) (Adapter, error) {
	a, ok := r.adapters[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}
	return a, nil
}
