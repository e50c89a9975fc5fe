package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeSpectator           = "SPECTATOR"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomExists          = "ROOM_EXISTS"
	CodeSeatTaken           = "SEAT_TAKEN"
	CodeRoomNotWaiting      = "ROOM_NOT_WAITING"
	CodeAlreadyPlayer1      = "ALREADY_PLAYER1"
	CodeGameNotInProgress   = "GAME_NOT_IN_PROGRESS"
	CodeGameAlreadyFinished = "GAME_ALREADY_FINISHED"
	CodeIllegalMove         = "ILLEGAL_MOVE"
	CodeUnknownGameType     = "UNKNOWN_GAME_TYPE"
	CodeConflict            = "CONFLICT"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Authorization
	case errors.Is(err, model.ErrSpectator):
		return &httpError{http.StatusForbidden, APIError{CodeSpectator, "Spectators cannot move"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}

	// State
	case errors.Is(err, model.ErrGameNotInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameNotInProgress, "Game is not in progress"}}
	case errors.Is(err, model.ErrGameAlreadyFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrSeatTaken):
		return &httpError{http.StatusConflict, APIError{CodeSeatTaken, "Seat is already taken"}}
	case errors.Is(err, model.ErrRoomNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeRoomNotWaiting, "Room is not waiting for a player"}}
	case errors.Is(err, model.ErrAlreadyPlayer1):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyPlayer1, "You already hold the first seat"}}
	case errors.Is(err, model.ErrRoomExists):
		return &httpError{http.StatusConflict, APIError{CodeRoomExists, "Room already exists"}}

	// Validation
	case errors.Is(err, model.ErrIllegalMove):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeIllegalMove, "Illegal move"}}
	case errors.Is(err, model.ErrUnknownGameType):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownGameType, "Unknown game type"}}

	// Concurrency
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Room changed concurrently, reload and retry"}}

	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
