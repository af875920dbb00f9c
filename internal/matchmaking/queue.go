// Package matchmaking holds participants waiting for an opponent.
package matchmaking

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/mindmaze/internal/model"
)

// Queue is a FIFO list of waiting entries. A participant waits for at most
// one category at a time.
//
// Queue is not safe for concurrent use; the game engine owns it and
// serialises access together with the session table.
type Queue struct {
	entries []model.WaitingEntry
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue inserts a waiting entry, replacing any existing entry for the
// participant. A replaced entry moves to the back of the queue.
func (q *Queue) Enqueue(id model.PlayerID, category model.Category, at time.Time) {
	q.Remove(id)
	q.entries = append(q.entries, model.WaitingEntry{
		PlayerID:   id,
		Category:   category,
		EnqueuedAt: at,
	})
}

// FindOpponent returns the longest-waiting participant in the category other
// than excluding.
func (q *Queue) FindOpponent(category model.Category, excluding model.PlayerID) (model.PlayerID, bool) {
	entry, ok := lo.Find(q.entries, func(e model.WaitingEntry) bool {
		return e.Category == category && e.PlayerID != excluding
	})
	if !ok {
		return "", false
	}
	return entry.PlayerID, true
}

// Remove deletes the participant's entry. It reports whether one existed.
func (q *Queue) Remove(id model.PlayerID) bool {
	before := len(q.entries)
	q.entries = slices.DeleteFunc(q.entries, func(e model.WaitingEntry) bool {
		return e.PlayerID == id
	})
	return len(q.entries) != before
}

// Get returns the participant's entry, if waiting
func (q *Queue) Get(id model.PlayerID) (model.WaitingEntry, bool) {
	return lo.Find(q.entries, func(e model.WaitingEntry) bool {
		return e.PlayerID == id
	})
}

// Len returns the number of waiting participants
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the queue in FIFO order
func (q *Queue) Entries() []model.WaitingEntry {
	return slices.Clone(q.entries)
}
