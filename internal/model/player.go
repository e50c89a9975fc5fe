package model

import "time"

// PlayerID identifies an authenticated user. Room seats and turn ownership
// refer to players by this id.
type PlayerID string

// Player is a user known to the service. Whether they play or watch is
// decided per room by the seat they hold.
type Player struct {
	ID PlayerID
	// DisplayName is copied into a room's seat when the player takes it
	DisplayName string
	IsGuest     bool
	CreatedAt   time.Time
}

// RegisteredPlayer holds login credentials for a non-guest player. It is
// stored apart from Player and never leaves the auth service.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
