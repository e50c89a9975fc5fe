package handler

import (
	"net/http"

	"github.com/mcoot/gameroom/internal/api/middleware"
	"github.com/mcoot/gameroom/internal/api/request"
	"github.com/mcoot/gameroom/internal/api/response"
	"github.com/mcoot/gameroom/internal/services/auth"
)

// PlayerHandler serves the identities that hold seats and watch rooms.
// Guest, register and login each answer with a fresh session token.
type PlayerHandler struct {
	auth *auth.Service
}

func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{auth: authService}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if !decodeValid(w, r, &req) {
		return
	}
	session, err := h.auth.CreateGuestPlayer(r.Context(), req.DisplayName)
	issueSession(w, http.StatusCreated, session, err)
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}
	session, err := h.auth.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	issueSession(w, http.StatusCreated, session, err)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	issueSession(w, http.StatusOK, session, err)
}

// GetMe handles GET /api/v1/players/me. The identity comes from the token
// claims; storage is not consulted.
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

func issueSession(w http.ResponseWriter, status int, session *auth.Session, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(session))
}
