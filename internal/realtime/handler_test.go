package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/protocol"
	"github.com/mcoot/mindmaze/internal/testutil"
)

// echoEngine greets on connect and answers every message with an error
// notification carrying the raw payload.
type echoEngine struct {
	mu           sync.Mutex
	conns        map[model.PlayerID]Conn
	disconnected chan Conn
}

func newEchoEngine() *echoEngine {
	return &echoEngine{
		conns:        make(map[model.PlayerID]Conn),
		disconnected: make(chan Conn, 4),
	}
}

func (e *echoEngine) Connect(id model.PlayerID, conn Conn) {
	e.mu.Lock()
	e.conns[id] = conn
	e.mu.Unlock()
	_ = conn.Send(protocol.NewConnected(id, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func (e *echoEngine) Disconnect(id model.PlayerID, conn Conn) {
	e.disconnected <- conn
}

func (e *echoEngine) Handle(id model.PlayerID, data []byte) {
	e.mu.Lock()
	conn := e.conns[id]
	e.mu.Unlock()
	_ = conn.Send(protocol.NewError(string(data)))
}

func (e *echoEngine) conn(id model.PlayerID) Conn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conns[id]
}

func startServer(t *testing.T, engine Engine) *httptest.Server {
	t.Helper()
	h := NewHandler(engine, 8, testutil.NopLogger())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, model.PlayerID(strings.TrimPrefix(r.URL.Path, "/ws/")))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + id
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readJSON(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandlerWelcomesAndRoutesMessages(t *testing.T) {
	engine := newEchoEngine()
	srv := startServer(t, engine)
	ws := dial(t, srv, "alice")

	welcome := readJSON(t, ws)
	assert.Equal(t, "connected", welcome["type"])
	assert.Equal(t, "Welcome alice!", welcome["message"])

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"cancel_search"}`)))
	reply := readJSON(t, ws)
	assert.Equal(t, "error", reply["type"])
	assert.Equal(t, `{"type":"cancel_search"}`, reply["message"])
}

func TestHandlerDisconnectsWithSameConn(t *testing.T) {
	engine := newEchoEngine()
	srv := startServer(t, engine)
	ws := dial(t, srv, "alice")
	readJSON(t, ws)

	registered := engine.conn("alice")
	require.NotNil(t, registered)

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	select {
	case got := <-engine.disconnected:
		assert.Same(t, registered, got)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect not reported")
	}
}

func TestHandlerServerCloseEndsConnection(t *testing.T) {
	engine := newEchoEngine()
	srv := startServer(t, engine)
	ws := dial(t, srv, "alice")
	readJSON(t, ws)

	engine.conn("alice").Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	select {
	case <-engine.disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect not reported")
	}
}

func TestHandlerRejectsInvalidParticipantID(t *testing.T) {
	h := NewHandler(newEchoEngine(), 8, testutil.NopLogger())

	tests := []struct {
		name string
		id   model.PlayerID
	}{
		{name: "empty", id: ""},
		{name: "too long", id: model.PlayerID(strings.Repeat("x", MaxParticipantIDLength+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ws/", nil)
			h.Serve(rec, req, tt.id)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestClientSendAfterClose(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), done: make(chan struct{})}
	c.Close()
	c.Close()

	assert.ErrorIs(t, c.Send(protocol.NewSearchCancelled()), ErrConnClosed)
}

func TestClientSendBufferFull(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), done: make(chan struct{})}

	require.NoError(t, c.Send(protocol.NewSearchCancelled()))
	assert.ErrorIs(t, c.Send(protocol.NewSearchCancelled()), ErrSendBufferFull)
}

func TestClosedClientIgnoresBufferedMessages(t *testing.T) {
	ready := make(chan struct{})
	written := make(chan struct{})
	finished := make(chan struct{})
	handled := make(chan []byte, 1)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = ws.Close() }()

		// Replaced before its next message is read
		client := NewClient(ws, "alice", 8, testutil.NopLogger())
		client.Close()
		close(ready)

		<-written
		client.readPump(func(data []byte) { handled <- data })
		close(finished)
	}))
	t.Cleanup(srv.Close)

	peer := dial(t, srv, "alice")
	<-ready
	require.NoError(t, peer.WriteMessage(websocket.TextMessage, []byte(`{"type":"cancel_search"}`)))
	close(written)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump did not stop")
	}
	assert.Empty(t, handled)
}
