package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/realtime"
)

// WebSocketHandler hands participant connections to the realtime layer
type WebSocketHandler struct {
	realtime *realtime.Handler
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(rt *realtime.Handler) *WebSocketHandler {
	return &WebSocketHandler{
		realtime: rt,
	}
}

// Connect handles GET /ws/{participant_id} and GET /ws?id=
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["participant_id"]
	if !ok {
		id = r.URL.Query().Get("id")
	}
	h.realtime.Serve(w, r, model.PlayerID(id))
}
