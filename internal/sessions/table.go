// Package sessions tracks live two-player game sessions.
package sessions

import (
	"fmt"
	"time"

	"github.com/mcoot/mindmaze/internal/model"
)

// IDSource generates session identifiers
type IDSource interface {
	UUID() string
}

// Table holds active sessions keyed by id, with an index from participant
// to session. A participant is in at most one session at a time.
//
// Table is not safe for concurrent use; the game engine owns it.
type Table struct {
	ids           IDSource
	sessions      map[model.SessionID]*model.Session
	byParticipant map[model.PlayerID]model.SessionID
}

// NewTable creates an empty session table
func NewTable(ids IDSource) *Table {
	return &Table{
		ids:           ids,
		sessions:      make(map[model.SessionID]*model.Session),
		byParticipant: make(map[model.PlayerID]model.SessionID),
	}
}

// Create inserts a new session for two distinct participants and returns it.
// It panics on a self-match, on a participant that already has a session or
// on an id collision: each means the caller broke an invariant.
func (t *Table) Create(a, b model.PlayerID, category model.Category, q model.Question, at time.Time) *model.Session {
	if a == b {
		panic(fmt.Sprintf("sessions: participant %q matched with itself", a))
	}
	for _, p := range []model.PlayerID{a, b} {
		if existing, ok := t.byParticipant[p]; ok {
			panic(fmt.Sprintf("sessions: participant %q already in session %q", p, existing))
		}
	}

	id := model.SessionID(t.ids.UUID())
	if _, ok := t.sessions[id]; ok {
		panic(fmt.Sprintf("sessions: duplicate session id %q", id))
	}

	s := &model.Session{
		ID:        id,
		PlayerA:   a,
		PlayerB:   b,
		Category:  category,
		Question:  q,
		CreatedAt: at,
	}
	t.sessions[id] = s
	t.byParticipant[a] = id
	t.byParticipant[b] = id
	return s
}

// Get returns a session by id
func (t *Table) Get(id model.SessionID) (*model.Session, bool) {
	s, ok := t.sessions[id]
	return s, ok
}

// FindByParticipant returns the session containing the participant
func (t *Table) FindByParticipant(id model.PlayerID) (*model.Session, bool) {
	sid, ok := t.byParticipant[id]
	if !ok {
		return nil, false
	}
	return t.Get(sid)
}

// Remove deletes a session. It reports whether the session existed.
func (t *Table) Remove(id model.SessionID) bool {
	s, ok := t.sessions[id]
	if !ok {
		return false
	}
	delete(t.sessions, id)
	for _, p := range s.Participants() {
		if t.byParticipant[p] == id {
			delete(t.byParticipant, p)
		}
	}
	return true
}

// Len returns the number of active sessions
func (t *Table) Len() int {
	return len(t.sessions)
}
