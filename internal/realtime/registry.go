package realtime

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/protocol"
)

var (
	// ErrConnClosed is returned when sending to a connection that has shut down
	ErrConnClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when a connection is not keeping up
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn is a participant's outbound channel. Send must not block.
type Conn interface {
	Send(n protocol.Notification) error
	Close()
}

// Registry maps participant ids to their live connection
type Registry struct {
	mu     sync.RWMutex
	conns  map[model.PlayerID]Conn
	logger *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[model.PlayerID]Conn),
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register maps the participant to conn, replacing any earlier connection.
// The replaced connection, if any, is returned so the caller can close it.
func (r *Registry) Register(id model.PlayerID, conn Conn) Conn {
	r.mu.Lock()
	previous := r.conns[id]
	r.conns[id] = conn
	count := len(r.conns)
	r.mu.Unlock()

	r.logger.Debug("connection registered",
		slog.String("player_id", string(id)),
		slog.Bool("replaced", previous != nil),
		slog.Int("total_connections", count))

	if previous == conn {
		return nil
	}
	return previous
}

// Unregister removes the mapping only while it still points at conn, so a
// late teardown of a replaced connection leaves its successor in place.
// It reports whether the mapping was removed.
func (r *Registry) Unregister(id model.PlayerID, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[id]
	if !ok || current != conn {
		return false
	}
	delete(r.conns, id)
	return true
}

// Lookup returns the participant's connection
func (r *Registry) Lookup(id model.PlayerID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// Send delivers a notification to a participant. Unknown participants are
// skipped and send failures are logged; neither is reported to the caller.
func (r *Registry) Send(id model.PlayerID, n protocol.Notification) {
	conn, ok := r.Lookup(id)
	if !ok {
		r.logger.Debug("notification dropped - participant not connected",
			slog.String("player_id", string(id)),
			slog.String("type", string(n.Kind())))
		return
	}

	if err := conn.Send(n); err != nil {
		r.logger.Warn("notification dropped",
			slog.String("player_id", string(id)),
			slog.String("type", string(n.Kind())),
			slog.String("error", err.Error()))
	}
}

// Count returns the number of connected participants
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
