package model

import (
	"errors"

	"github.com/mcoot/gameroom/internal/rules"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room already exists")
	ErrSeatTaken      = errors.New("seat is already taken")
	ErrRoomNotWaiting = errors.New("room is not waiting for a player")
	ErrAlreadyPlayer1 = errors.New("player already holds the first seat")

	// Turn errors
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrGameAlreadyFinished = errors.New("game is already finished")
	ErrSpectator           = errors.New("spectators cannot move")
	ErrNotYourTurn         = errors.New("not this player's turn")

	// Concurrency errors
	ErrConflict = errors.New("room was modified concurrently")

	// Rules errors, shared with the rules package so errors.Is matches either
	ErrIllegalMove     = rules.ErrIllegalMove
	ErrUnknownGameType = rules.ErrUnknownGameType
)

// Category groups errors by how callers should react to them
type Category int

const (
	CategoryUnexpected    Category = iota // infrastructure or engine failure
	CategoryAuthorization                 // caller may not perform the action
	CategoryState                         // room is in the wrong lifecycle state
	CategoryValidation                    // the input itself is rejected
	CategoryConcurrency                   // lost a race, reload and retry
	CategoryNotFound
)

func (c Category) String() string {
	switch c {
	case CategoryAuthorization:
		return "authorization"
	case CategoryState:
		return "state"
	case CategoryValidation:
		return "validation"
	case CategoryConcurrency:
		return "concurrency"
	case CategoryNotFound:
		return "not_found"
	}
	return "unexpected"
}

// Classify maps an error to its category. Only CategoryUnexpected
// indicates a fault worth logging at error level.
func Classify(err error) Category {
	switch {
	case errors.Is(err, ErrSpectator), errors.Is(err, ErrNotYourTurn):
		return CategoryAuthorization
	case errors.Is(err, ErrGameNotInProgress), errors.Is(err, ErrGameAlreadyFinished),
		errors.Is(err, ErrSeatTaken), errors.Is(err, ErrRoomNotWaiting),
		errors.Is(err, ErrAlreadyPlayer1), errors.Is(err, ErrRoomExists):
		return CategoryState
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrUnknownGameType):
		return CategoryValidation
	case errors.Is(err, ErrConflict):
		return CategoryConcurrency
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound):
		return CategoryNotFound
	}
	return CategoryUnexpected
}
