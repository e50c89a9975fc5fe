package response

import (
	"encoding/json"
	"time"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/rules"
	"github.com/mcoot/gameroom/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Seat is an occupied seat in a room
type Seat struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// Room represents a room in API responses
type Room struct {
	ID        string    `json:"id"`
	GameType  string    `json:"game_type"`
	Status    string    `json:"status"`
	Player1   Seat      `json:"player1"`
	Player2   *Seat     `json:"player2"` // null while the seat is open
	WinnerID  *string   `json:"winner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameState is the board state of a room. Position is the tagged
// position encoding, e.g. {"type":"chess","board":"<fen>"}.
type GameState struct {
	Position  json.RawMessage `json:"position"`
	TurnOwner string          `json:"turn_owner,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot is a room and its game state at one version. It is the
// payload of every stream event.
type Snapshot struct {
	Version int64     `json:"version"`
	Room    Room      `json:"room"`
	State   GameState `json:"state"`
}

// DecodePosition parses the position carried by the snapshot
func (s Snapshot) DecodePosition() (rules.Position, error) {
	return rules.DecodePosition(s.State.Position)
}

// SnapshotFromModel converts a model.Snapshot
func SnapshotFromModel(s *model.Snapshot) Snapshot {
	room := Room{
		ID:       string(s.Room.ID),
		GameType: string(s.Room.GameType),
		Status:   string(s.Room.Status),
		Player1: Seat{
			PlayerID:    string(s.Room.Player1ID),
			DisplayName: s.Room.Player1Name,
		},
		CreatedAt: s.Room.CreatedAt,
		UpdatedAt: s.Room.UpdatedAt,
	}
	if !s.Room.SeatOpen() {
		room.Player2 = &Seat{
			PlayerID:    string(s.Room.Player2ID),
			DisplayName: s.Room.Player2Name,
		}
	}
	if s.Room.WinnerID != "" {
		w := string(s.Room.WinnerID)
		room.WinnerID = &w
	}

	// Positions marshal from plain values and cannot fail
	position, _ := json.Marshal(s.GameState.Position)

	return Snapshot{
		Version: s.GameState.Version,
		Room:    room,
		State: GameState{
			Position:  position,
			TurnOwner: string(s.GameState.TurnOwner),
			UpdatedAt: s.GameState.UpdatedAt,
		},
	}
}

// RoomView is a snapshot as seen by one caller
type RoomView struct {
	Snapshot
	Role        string `json:"role"`
	YourTurn    bool   `json:"your_turn"`
	Orientation string `json:"orientation,omitempty"` // chess only: the side at the bottom of the board
}

// RoomViewFromModel builds the view of a room for viewerID. An empty
// viewerID is an anonymous spectator.
func RoomViewFromModel(s *model.Snapshot, viewerID model.PlayerID) RoomView {
	role := s.Room.RoleOf(viewerID)
	view := RoomView{
		Snapshot: SnapshotFromModel(s),
		Role:     string(role),
		YourTurn: role != model.RoleSpectator &&
			s.Room.Status == model.RoomStatusPlaying &&
			s.GameState.TurnOwner == viewerID,
	}
	if s.Room.GameType == rules.GameChess {
		view.Orientation = "white"
		if role == model.RolePlayer2 {
			view.Orientation = "black"
		}
	}
	return view
}

// Seat roles returned by a seat claim
const (
	SeatRolePlayer    = "player"
	SeatRoleSpectator = "spectator"
)

// SeatResponse is the result of a seat claim. Losing the seat race is not
// an error: the caller continues as a spectator.
type SeatResponse struct {
	Role     string   `json:"role"`
	Snapshot RoomView `json:"snapshot"`
}

// LegalMovesResponse lists the moves available to the side to move
type LegalMovesResponse struct {
	Moves []string `json:"moves"`
}

// LegalMovesFromRules converts rules moves
func LegalMovesFromRules(moves []rules.Move) LegalMovesResponse {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = string(m)
	}
	return LegalMovesResponse{Moves: out}
}
