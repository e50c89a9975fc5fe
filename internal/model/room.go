package model

import (
	"time"

	"github.com/mcoot/gameroom/internal/rules"
)

// RoomID uniquely identifies a room
type RoomID string

// RoomStatus is the lifecycle state of a room. It only moves forward:
// waiting -> playing -> finished.
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // seat 2 is open
	RoomStatusPlaying  RoomStatus = "playing"  // both seats taken, moves accepted
	RoomStatusFinished RoomStatus = "finished" // terminal, no further mutation
)

// Role is a caller's relationship to a room
type Role string

const (
	RolePlayer1   Role = "player1"
	RolePlayer2   Role = "player2"
	RoleSpectator Role = "spectator"
)

// Room is the container for one game between two participants
type Room struct {
	ID          RoomID
	GameType    rules.GameType
	Player1ID   PlayerID
	Player2ID   PlayerID // empty until the seat is claimed
	Player1Name string
	Player2Name string
	Status      RoomStatus
	WinnerID    PlayerID // empty unless finished with a decisive result
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeatOpen reports whether the second seat is still unclaimed
func (r *Room) SeatOpen() bool {
	return r.Player2ID == ""
}

// RoleOf returns the role a player holds in this room
func (r *Room) RoleOf(id PlayerID) Role {
	switch {
	case id == "":
		return RoleSpectator
	case id == r.Player1ID:
		return RolePlayer1
	case id == r.Player2ID:
		return RolePlayer2
	}
	return RoleSpectator
}

// IsParticipant reports whether the player holds a seat
func (r *Room) IsParticipant(id PlayerID) bool {
	return r.RoleOf(id) != RoleSpectator
}

// SideOf returns the rules side for a participant
func (r *Room) SideOf(id PlayerID) (rules.Side, bool) {
	switch r.RoleOf(id) {
	case RolePlayer1:
		return rules.SideFirst, true
	case RolePlayer2:
		return rules.SideSecond, true
	}
	return 0, false
}

// PlayerFor returns the participant occupying a side
func (r *Room) PlayerFor(side rules.Side) PlayerID {
	if side == rules.SideFirst {
		return r.Player1ID
	}
	return r.Player2ID
}

// Opponent returns the other participant
func (r *Room) Opponent(id PlayerID) PlayerID {
	if id == r.Player1ID {
		return r.Player2ID
	}
	return r.Player1ID
}
