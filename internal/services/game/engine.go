// Package game runs the matchmaking and answer adjudication state machine.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mcoot/mindmaze/internal/dependencies/clock"
	"github.com/mcoot/mindmaze/internal/matchmaking"
	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/protocol"
	"github.com/mcoot/mindmaze/internal/realtime"
	"github.com/mcoot/mindmaze/internal/sessions"
)

// Error texts sent to the offending participant
const (
	MsgInvalidFormat      = "Invalid format"
	MsgUnknownMessageType = "Unknown message type"
	MsgNoActiveGame       = "No active game found"
	MsgAlreadyInGame      = "You are already in a game"
	MsgNoQuestions        = "No questions available"
)

// ContentProvider supplies categories and questions
type ContentProvider interface {
	CategoryExists(category model.Category) bool
	RandomQuestion(category model.Category) (model.Question, error)
}

// ScoreRecorder persists awarded points. Record must not block.
type ScoreRecorder interface {
	Record(id model.PlayerID, points int, category model.Category)
}

// Stats is a point-in-time view of engine occupancy
type Stats struct {
	ActiveSessions int `json:"active_games"`
	Waiting        int `json:"waiting_players"`
	Connected      int `json:"connected_players"`
}

// Engine owns the matchmaking queue and session table. Every mutation runs
// under one lock. Notifications are collected while it is held and pushed
// into the recipients' connection buffers before it is released, so each
// participant sees them in the order the state changed. Conn.Send never
// blocks, so delivery cannot stall the lock.
type Engine struct {
	mu    sync.Mutex
	queue *matchmaking.Queue
	table *sessions.Table

	registry *realtime.Registry
	content  ContentProvider
	scores   ScoreRecorder
	clock    clock.Clock
	logger   *slog.Logger
}

var _ realtime.Engine = (*Engine)(nil)

// NewEngine creates an engine with an empty queue and session table
func NewEngine(
	registry *realtime.Registry,
	content ContentProvider,
	scores ScoreRecorder,
	ids sessions.IDSource,
	clock clock.Clock,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		queue:    matchmaking.NewQueue(),
		table:    sessions.NewTable(ids),
		registry: registry,
		content:  content,
		scores:   scores,
		clock:    clock,
		logger:   logger.With(slog.String("component", "game-engine")),
	}
}

type delivery struct {
	to model.PlayerID
	n  protocol.Notification
}

// outbox collects notifications produced inside the critical section
type outbox []delivery

func (o *outbox) add(to model.PlayerID, n protocol.Notification) {
	*o = append(*o, delivery{to: to, n: n})
}

// transition runs fn under the engine lock and delivers what it produced
// before releasing it
func (e *Engine) transition(fn func(out *outbox)) {
	var out outbox

	e.mu.Lock()
	defer e.mu.Unlock()

	fn(&out)
	for _, d := range out {
		e.registry.Send(d.to, d.n)
	}
}

// rejection converts a refused request into the error notification sent
// back to its sender
func rejection(err error) protocol.Error {
	switch {
	case errors.Is(err, model.ErrUnknownMessageType):
		return protocol.NewError(MsgUnknownMessageType)
	case errors.Is(err, model.ErrNoActiveGame):
		return protocol.NewError(MsgNoActiveGame)
	case errors.Is(err, model.ErrAlreadyInGame):
		return protocol.NewError(MsgAlreadyInGame)
	case errors.Is(err, model.ErrNoQuestions):
		return protocol.NewError(MsgNoQuestions)
	default:
		return protocol.NewError(MsgInvalidFormat)
	}
}

// Connect registers the participant's connection and welcomes it. A
// connection already registered under the same id is closed and replaced;
// any waiting entry or session the participant holds carries over.
func (e *Engine) Connect(id model.PlayerID, conn realtime.Conn) {
	e.transition(func(out *outbox) {
		if previous := e.registry.Register(id, conn); previous != nil {
			e.logger.Info("connection taken over", slog.String("player_id", string(id)))
			previous.Close()
		}
		out.add(id, protocol.NewConnected(id, e.clock.Now()))
	})
}

// Handle decodes a raw client message and routes it
func (e *Engine) Handle(id model.PlayerID, data []byte) {
	ev, err := protocol.Decode(data)
	if err != nil {
		e.logger.Debug("rejected message",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		e.transition(func(out *outbox) {
			out.add(id, rejection(err))
		})
		return
	}

	switch ev := ev.(type) {
	case protocol.FindMatch:
		e.FindMatch(id, model.Category(ev.Category))
	case protocol.SubmitAnswer:
		e.SubmitAnswer(id, ev.Answer)
	case protocol.CancelSearch:
		e.CancelSearch(id)
	}
}

// FindMatch pairs the participant with the longest-waiting participant in
// the category, or queues it when nobody is waiting.
func (e *Engine) FindMatch(id model.PlayerID, category model.Category) {
	if category == "" {
		category = model.DefaultCategory
	}

	e.transition(func(out *outbox) {
		e.findMatchLocked(out, id, category)
	})
}

func (e *Engine) findMatchLocked(out *outbox, id model.PlayerID, category model.Category) {
	if !e.content.CategoryExists(category) {
		out.add(id, protocol.NewError(fmt.Sprintf("Unknown category: %s", category)))
		return
	}
	if _, ok := e.table.FindByParticipant(id); ok {
		out.add(id, rejection(model.ErrAlreadyInGame))
		return
	}

	opponent, found := e.queue.FindOpponent(category, id)
	if !found {
		// Asking again for the same category keeps the place in line
		if entry, waiting := e.queue.Get(id); !waiting || entry.Category != category {
			e.queue.Enqueue(id, category, e.clock.Now())
		}
		e.logger.Debug("player waiting",
			slog.String("player_id", string(id)),
			slog.String("category", string(category)))
		out.add(id, protocol.NewWaitingForOpponent(category))
		return
	}

	question, err := e.content.RandomQuestion(category)
	if err != nil {
		e.logger.Error("failed to draw question",
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		out.add(id, rejection(model.ErrNoQuestions))
		return
	}

	e.queue.Remove(opponent)
	e.queue.Remove(id)
	session := e.table.Create(opponent, id, category, question, e.clock.Now())

	e.logger.Info("game started",
		slog.String("session_id", string(session.ID)),
		slog.String("category", string(category)),
		slog.String("player_a", string(session.PlayerA)),
		slog.String("player_b", string(session.PlayerB)))

	for _, p := range session.Participants() {
		out.add(p, protocol.NewGameStart(session, p))
	}
}

// CancelSearch withdraws the participant's waiting entry. Without one it
// does nothing.
func (e *Engine) CancelSearch(id model.PlayerID) {
	e.transition(func(out *outbox) {
		if e.queue.Remove(id) {
			e.logger.Debug("search cancelled", slog.String("player_id", string(id)))
			out.add(id, protocol.NewSearchCancelled())
		}
	})
}

// SubmitAnswer adjudicates an answer against the participant's session
func (e *Engine) SubmitAnswer(id model.PlayerID, answer string) {
	var award *pendingAward
	e.transition(func(out *outbox) {
		award = e.submitAnswerLocked(out, id, answer)
	})

	if award != nil {
		e.scores.Record(award.winner, award.points, award.category)
	}
}

type pendingAward struct {
	winner   model.PlayerID
	points   int
	category model.Category
}

func (e *Engine) submitAnswerLocked(out *outbox, id model.PlayerID, answer string) *pendingAward {
	session, ok := e.table.FindByParticipant(id)
	if !ok {
		out.add(id, rejection(model.ErrNoActiveGame))
		return nil
	}

	if normalize(answer) != normalize(session.Question.Answer) {
		out.add(id, protocol.NewWrongAnswer(utf8.RuneCountInString(session.Question.Answer)))
		return nil
	}

	winner := id
	session.Winner = &winner
	points := model.PointsFor(session.Category)
	e.table.Remove(session.ID)

	e.logger.Info("game won",
		slog.String("session_id", string(session.ID)),
		slog.String("winner", string(winner)),
		slog.Int("points", points))

	for _, p := range session.Participants() {
		out.add(p, protocol.NewGameEnd(session, winner, p, points))
	}
	return &pendingAward{winner: winner, points: points, category: session.Category}
}

// Disconnect tears down the participant's state when conn is still its
// registered connection. A connection that was already replaced is ignored.
func (e *Engine) Disconnect(id model.PlayerID, conn realtime.Conn) {
	e.transition(func(out *outbox) {
		if !e.registry.Unregister(id, conn) {
			e.logger.Debug("stale disconnect ignored", slog.String("player_id", string(id)))
			return
		}

		e.queue.Remove(id)
		if session, ok := e.table.FindByParticipant(id); ok {
			e.table.Remove(session.ID)
			out.add(session.Opponent(id), protocol.NewOpponentDisconnected())
			e.logger.Info("game abandoned",
				slog.String("session_id", string(session.ID)),
				slog.String("player_id", string(id)))
		}
	})
}

// Stats reports current occupancy
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	stats := Stats{
		ActiveSessions: e.table.Len(),
		Waiting:        e.queue.Len(),
	}
	e.mu.Unlock()

	stats.Connected = e.registry.Count()
	return stats
}

// normalize prepares an answer for comparison
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
