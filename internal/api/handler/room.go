package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gameroom/internal/api/middleware"
	"github.com/mcoot/gameroom/internal/api/request"
	"github.com/mcoot/gameroom/internal/api/response"
	"github.com/mcoot/gameroom/internal/api/stream"
	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/rules"
	"github.com/mcoot/gameroom/internal/services/session"
)

// RoomHandler handles room and game endpoints
type RoomHandler struct {
	engine session.EngineInterface
	logger *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(engine session.EngineInterface, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		engine: engine,
		logger: logger,
	}
}

func roomID(r *http.Request) model.RoomID {
	return model.RoomID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	gameType, err := rules.ParseGameType(req.GameType)
	if err != nil {
		WriteError(w, err)
		return
	}

	snap, err := h.engine.CreateRoom(r.Context(), gameType, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/rooms/"+string(snap.Room.ID), response.RoomViewFromModel(snap, player.ID))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.GetRoom(r.Context(), roomID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomViewFromModel(snap, middleware.PlayerID(r.Context())))
}

// ClaimSeat handles POST /api/v1/rooms/{id}/seat. A caller who loses the
// race for the seat gets the current room as a spectator.
func (h *RoomHandler) ClaimSeat(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := roomID(r)

	snap, err := h.engine.ClaimSeat(r.Context(), id, player.ID)
	if errors.Is(err, model.ErrSeatTaken) {
		current, getErr := h.engine.GetRoom(r.Context(), id)
		if getErr != nil {
			WriteError(w, getErr)
			return
		}
		response.JSON(w, http.StatusOK, response.SeatResponse{
			Role:     response.SeatRoleSpectator,
			Snapshot: response.RoomViewFromModel(current, player.ID),
		})
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SeatResponse{
		Role:     response.SeatRolePlayer,
		Snapshot: response.RoomViewFromModel(snap, player.ID),
	})
}

// SubmitMove handles POST /api/v1/rooms/{id}/moves
func (h *RoomHandler) SubmitMove(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.MoveRequest
	if !decodeValid(w, r, &req) {
		return
	}

	snap, err := h.engine.SubmitMove(r.Context(), roomID(r), player.ID, rules.Move(req.Move))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomViewFromModel(snap, player.ID))
}

// LegalMoves handles GET /api/v1/rooms/{id}/moves
func (h *RoomHandler) LegalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.engine.LegalMoves(r.Context(), roomID(r), r.URL.Query().Get("from"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LegalMovesFromRules(moves))
}

// Events handles GET /api/v1/rooms/{id}/events
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	sub, err := h.engine.Subscribe(r.Context(), roomID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	stream.ServeSSE(w, r, sub, h.logger)
}

// WebSocket handles GET /api/v1/rooms/{id}/ws
func (h *RoomHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sub, err := h.engine.Subscribe(r.Context(), roomID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	stream.ServeWS(w, r, sub, h.logger)
}
