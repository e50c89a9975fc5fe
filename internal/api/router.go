package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gameroom/internal/api/apierr"
	"github.com/mcoot/gameroom/internal/api/handler"
	apimiddleware "github.com/mcoot/gameroom/internal/api/middleware"
	"github.com/mcoot/gameroom/internal/middleware"
	"github.com/mcoot/gameroom/internal/services/auth"
	"github.com/mcoot/gameroom/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Engine      session.EngineInterface
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.Engine, cfg.Logger)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := apimiddleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	// Logging wraps recovery so panics are logged with their request id
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Room mutations require a player. Anyone may watch; a session only
	// adds the caller's role to the view.
	rooms := api.PathPrefix("/rooms").Subrouter()
	required := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuthMiddleware(h) }

	rooms.Handle("", required(roomHandler.Create)).Methods(http.MethodPost)
	rooms.Handle("/{id}", optional(roomHandler.Get)).Methods(http.MethodGet)
	rooms.Handle("/{id}/seat", required(roomHandler.ClaimSeat)).Methods(http.MethodPost)
	rooms.Handle("/{id}/moves", required(roomHandler.SubmitMove)).Methods(http.MethodPost)
	rooms.Handle("/{id}/moves", optional(roomHandler.LegalMoves)).Methods(http.MethodGet)
	rooms.Handle("/{id}/events", optional(roomHandler.Events)).Methods(http.MethodGet)
	rooms.Handle("/{id}/ws", optional(roomHandler.WebSocket)).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
