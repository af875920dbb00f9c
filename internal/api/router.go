package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mindmaze/internal/api/handler"
	"github.com/mcoot/mindmaze/internal/api/middleware"
	"github.com/mcoot/mindmaze/internal/api/response"
	"github.com/mcoot/mindmaze/internal/realtime"
	"github.com/mcoot/mindmaze/internal/services/content"
	"github.com/mcoot/mindmaze/internal/services/game"
	"github.com/mcoot/mindmaze/internal/services/players"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Content        *content.Service
	Players        *players.Service
	Engine         *game.Engine
	RealtimeServer *realtime.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	contentHandler := handler.NewContentHandler(cfg.Content)
	playerHandler := handler.NewPlayerHandler(cfg.Players)
	statsHandler := handler.NewStatsHandler(cfg.Engine, cfg.Players, cfg.Logger)
	wsHandler := handler.NewWebSocketHandler(cfg.RealtimeServer)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Question bank
	api.HandleFunc("/categories", contentHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{category}/questions", contentHandler.Questions).Methods(http.MethodGet)

	// Accounts and scores
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/players/{username}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", playerHandler.Leaderboard).Methods(http.MethodGet)

	api.HandleFunc("/stats", statsHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Game connections
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(loggingMiddleware)
	ws.HandleFunc("", wsHandler.Connect).Methods(http.MethodGet)
	ws.HandleFunc("/{participant_id}", wsHandler.Connect).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
