package model

import "time"

// SessionID uniquely identifies a game session for the lifetime of the process
type SessionID string

// Question is a single trivia question with its correct answer
type Question struct {
	Text   string `json:"question"`
	Answer string `json:"answer"`
}

// WaitingEntry is an open matchmaking request
type WaitingEntry struct {
	PlayerID   PlayerID
	Category   Category
	EnqueuedAt time.Time
}

// Session is one live two-player match bound to a single question.
// Sessions are never reused: they are removed as soon as they resolve.
type Session struct {
	ID        SessionID
	PlayerA   PlayerID // the participant that was waiting
	PlayerB   PlayerID // the participant whose request completed the match
	Category  Category
	Question  Question
	Winner    *PlayerID
	CreatedAt time.Time
}

// Opponent returns the other member of the session
func (s *Session) Opponent(id PlayerID) PlayerID {
	if s.PlayerA == id {
		return s.PlayerB
	}
	return s.PlayerA
}

// Participants returns both members, waiting participant first
func (s *Session) Participants() []PlayerID {
	return []PlayerID{s.PlayerA, s.PlayerB}
}
