package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/mindmaze/internal/model"
)

// MaxParticipantIDLength bounds the identifier taken from the connection path
const MaxParticipantIDLength = 64

// Engine receives the lifecycle and messages of every connection
type Engine interface {
	Connect(id model.PlayerID, conn Conn)
	Disconnect(id model.PlayerID, conn Conn)
	Handle(id model.PlayerID, data []byte)
}

// Handler upgrades HTTP requests to participant websocket connections
type Handler struct {
	engine         Engine
	upgrader       websocket.Upgrader
	sendBufferSize int
	logger         *slog.Logger
}

// NewHandler creates a websocket handler feeding engine
func NewHandler(engine Engine, sendBufferSize int, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sendBufferSize: sendBufferSize,
		logger:         logger.With(slog.String("component", "websocket")),
	}
}

// Serve upgrades the request and runs the connection for participant id
// until either side closes it.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, id model.PlayerID) {
	if id == "" || len(id) > MaxParticipantIDLength {
		http.Error(w, "invalid participant id", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		h.logger.Warn("websocket upgrade failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return
	}

	client := NewClient(ws, id, h.sendBufferSize, h.logger)
	h.logger.Info("websocket connected",
		slog.String("player_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr))

	go client.writePump()
	h.engine.Connect(id, client)

	client.readPump(func(data []byte) {
		h.engine.Handle(id, data)
	})

	client.Close()
	h.engine.Disconnect(id, client)
	h.logger.Info("websocket disconnected", slog.String("player_id", string(id)))
}
