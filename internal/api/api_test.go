package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mindmaze/internal/api"
	"github.com/mcoot/mindmaze/internal/api/apierr"
	"github.com/mcoot/mindmaze/internal/api/response"
	"github.com/mcoot/mindmaze/internal/factory"
	"github.com/mcoot/mindmaze/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestQuestions())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = app.Close(ctx)
	})

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		Content:        app.Content,
		Players:        app.Players,
		Engine:         app.Engine,
		RealtimeServer: app.Realtime,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Categories](t, rr)
	assert.Equal(t, 1, resp.Categories["science"])
	assert.Len(t, resp.Categories, 4)
	assert.Equal(t, 15, resp.Points["science"])
	assert.Equal(t, 20, resp.Points["technology"])
}

func TestQuestionsWithholdAnswers(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/categories/science/questions", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Questions](t, rr)
	assert.Equal(t, []string{"What is the largest planet in our solar system?"}, resp.Questions)
	assert.Equal(t, 15, resp.Points)
	assert.NotContains(t, rr.Body.String(), "jupiter")
}

func TestQuestionsUnknownCategory(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/categories/cooking/questions", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUnknownCategory, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)
	registered := decode[response.PlayerResponse](t, rr)
	assert.Equal(t, "alice", registered.Player.Username)
	assert.Equal(t, 0, registered.Player.Score)
	assert.Nil(t, registered.Player.LastLoginAt)

	ts.app.MockClock.Advance(time.Hour)
	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decode[response.PlayerResponse](t, rr)
	require.NotNil(t, loggedIn.Player.LastLoginAt)
	assert.True(t, ts.app.MockClock.Now().Equal(*loggedIn.Player.LastLoginAt))
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": "alice"})
	rr := ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{name: "missing username", body: map[string]string{}, wantCode: apierr.CodeInvalidRequest},
		{name: "bad characters", body: map[string]string{"username": "no spaces"}, wantCode: apierr.CodeInvalidUsername},
		{name: "not an object", body: "alice", wantCode: apierr.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/players/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantCode, decode[apierr.ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestLoginUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestGetPlayer(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": "alice"})
	_, err := ts.app.Storage.IncrementScore(context.Background(), "alice", 25)
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/players/alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 25, decode[response.PlayerResponse](t, rr).Player.Score)

	rr = ts.request(http.MethodGet, "/api/v1/players/bob", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": name})
	}
	_, err := ts.app.Storage.IncrementScore(context.Background(), "bob", 30)
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Leaderboard](t, rr)
	require.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, response.LeaderboardEntry{Rank: 1, Username: "bob", Score: 30}, resp.Leaderboard[0])

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{"username": "alice"})

	rr := ts.request(http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, response.Stats{RegisteredPlayers: 1}, decode[response.Stats](t, rr))
}

// Websocket

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func expectType(t *testing.T, ws *websocket.Conn, typ string) map[string]any {
	t.Helper()
	msg := readMessage(t, ws)
	require.Equal(t, typ, msg["type"], "message: %v", msg)
	return msg
}

func TestWebSocketGame(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	alice := dialWS(t, srv, "/ws/alice")
	assert.Equal(t, "Welcome alice!", expectType(t, alice, "connected")["message"])
	require.NoError(t, alice.WriteJSON(map[string]string{"type": "find_match", "category": "general_knowledge"}))
	expectType(t, alice, "waiting_for_opponent")

	bob := dialWS(t, srv, "/ws?id=bob")
	expectType(t, bob, "connected")
	require.NoError(t, bob.WriteJSON(map[string]string{"type": "find_match", "category": "general_knowledge"}))

	startA := expectType(t, alice, "game_start")
	startB := expectType(t, bob, "game_start")
	assert.Equal(t, startA["session_id"], startB["session_id"])
	assert.Equal(t, "What is the capital of France?", startA["question"])
	assert.Equal(t, "bob", startA["opponent"])
	assert.Equal(t, "alice", startB["opponent"])

	require.NoError(t, bob.WriteJSON(map[string]string{"type": "submit_answer", "answer": "london"}))
	wrong := expectType(t, bob, "wrong_answer")
	assert.Equal(t, float64(len("paris")), wrong["hint"])

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "submit_answer", "answer": " PARIS "}))
	endA := expectType(t, alice, "game_end")
	endB := expectType(t, bob, "game_end")
	assert.Equal(t, true, endA["is_winner"])
	assert.Equal(t, float64(10), endA["points"])
	assert.Equal(t, false, endB["is_winner"])
	assert.Equal(t, float64(0), endB["points"])
	assert.Equal(t, "paris", endB["correct_answer"])
}

func TestWebSocketOpponentDisconnect(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	alice := dialWS(t, srv, "/ws/alice")
	expectType(t, alice, "connected")
	bob := dialWS(t, srv, "/ws/bob")
	expectType(t, bob, "connected")

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "find_match"}))
	expectType(t, alice, "waiting_for_opponent")
	require.NoError(t, bob.WriteJSON(map[string]string{"type": "find_match"}))
	expectType(t, alice, "game_start")
	expectType(t, bob, "game_start")

	require.NoError(t, alice.Close())

	msg := expectType(t, bob, "opponent_disconnected")
	assert.Equal(t, "Your opponent disconnected", msg["message"])

	require.NoError(t, bob.WriteJSON(map[string]string{"type": "submit_answer", "answer": "paris"}))
	assert.Equal(t, "No active game found", expectType(t, bob, "error")["message"])
}

func TestWebSocketProtocolErrors(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	ws := dialWS(t, srv, "/ws/alice")
	expectType(t, ws, "connected")

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{{{")))
	assert.Equal(t, "Invalid format", expectType(t, ws, "error")["message"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "dance"}))
	assert.Equal(t, "Unknown message type", expectType(t, ws, "error")["message"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "find_match", "category": "cooking"}))
	assert.Equal(t, "Unknown category: cooking", expectType(t, ws, "error")["message"])

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "cancel_search"}))
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "find_match", "category": "math"}))
	expectType(t, ws, "waiting_for_opponent")
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "cancel_search"}))
	expectType(t, ws, "search_cancelled")
}

func TestWebSocketRequiresParticipantID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
