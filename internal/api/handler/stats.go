package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mindmaze/internal/api/response"
	"github.com/mcoot/mindmaze/internal/services/game"
	"github.com/mcoot/mindmaze/internal/services/players"
)

// StatsHandler reports live and persisted counts
type StatsHandler struct {
	engine  *game.Engine
	players *players.Service
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(engine *game.Engine, players *players.Service, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		engine:  engine,
		players: players,
		logger:  logger,
	}
}

// Stats handles GET /api/v1/stats. Live counts are still reported when
// the account store cannot be reached.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	live := h.engine.Stats()

	registered, err := h.players.Count(r.Context())
	if err != nil {
		h.logger.Warn("failed to count players", slog.String("error", err.Error()))
	}

	response.JSON(w, http.StatusOK, response.Stats{
		ActiveGames:       live.ActiveSessions,
		WaitingPlayers:    live.Waiting,
		ConnectedPlayers:  live.Connected,
		RegisteredPlayers: registered,
	})
}
