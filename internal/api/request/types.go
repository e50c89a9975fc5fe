// Package request holds API request bodies and their field checks
package request

import (
	"strings"
	"unicode/utf8"
)

// MaxDisplayNameLength bounds the name shown to the opponent and observers
const MaxDisplayNameLength = 32

// FieldError reports a missing or malformed request field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

func required(field, value string) error {
	if value == "" {
		return &FieldError{Field: field, Reason: "is required"}
	}
	return nil
}

func displayName(value *string) error {
	*value = strings.TrimSpace(*value)
	if err := required("display_name", *value); err != nil {
		return err
	}
	if utf8.RuneCountInString(*value) > MaxDisplayNameLength {
		return &FieldError{Field: "display_name", Reason: "is too long"}
	}
	return nil
}

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// Validate trims the display name and checks it
func (r *CreateGuestRequest) Validate() error {
	return displayName(&r.DisplayName)
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r *RegisterRequest) Validate() error {
	if err := required("username", r.Username); err != nil {
		return err
	}
	if err := required("password", r.Password); err != nil {
		return err
	}
	return displayName(&r.DisplayName)
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if err := required("username", r.Username); err != nil {
		return err
	}
	return required("password", r.Password)
}

// CreateRoomRequest is the request body for creating a room. The game
// type itself is checked against the rules registry.
type CreateRoomRequest struct {
	GameType string `json:"game_type"`
}

// MoveRequest is the request body for submitting a move. The move is in
// the game's own notation: a cell index 0-8 for tictactoe, UCI or SAN for
// chess.
type MoveRequest struct {
	Move string `json:"move"`
}

func (r *MoveRequest) Validate() error {
	r.Move = strings.TrimSpace(r.Move)
	return required("move", r.Move)
}
