package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcoot/mindmaze/internal/model"
)

// NotificationType identifies a server to client message
type NotificationType string

const (
	NotifyConnected            NotificationType = "connected"
	NotifyWaitingForOpponent   NotificationType = "waiting_for_opponent"
	NotifyGameStart            NotificationType = "game_start"
	NotifyWrongAnswer          NotificationType = "wrong_answer"
	NotifyGameEnd              NotificationType = "game_end"
	NotifyOpponentDisconnected NotificationType = "opponent_disconnected"
	NotifySearchCancelled      NotificationType = "search_cancelled"
	NotifyError                NotificationType = "error"
)

// Notification is a message sent to one participant
type Notification interface {
	Kind() NotificationType
}

// Connected welcomes a newly connected participant
type Connected struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// WaitingForOpponent confirms a participant has been queued
type WaitingForOpponent struct {
	Type     NotificationType `json:"type"`
	Category model.Category   `json:"category"`
	Message  string           `json:"message"`
}

// GameStart tells a participant it has been matched. The answer is never included.
type GameStart struct {
	Type      NotificationType `json:"type"`
	SessionID model.SessionID  `json:"session_id"`
	Category  model.Category   `json:"category"`
	Question  string           `json:"question"`
	Opponent  model.PlayerID   `json:"opponent"`
}

// WrongAnswer is sent to the submitter of an incorrect answer
type WrongAnswer struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	Hint    int              `json:"hint"`
}

// GameEnd announces the winner; IsWinner and Points are per recipient
type GameEnd struct {
	Type          NotificationType `json:"type"`
	Winner        model.PlayerID   `json:"winner"`
	CorrectAnswer string           `json:"correct_answer"`
	IsWinner      bool             `json:"is_winner"`
	Points        int              `json:"points"`
	Category      model.Category   `json:"category"`
	Message       string           `json:"message"`
}

// OpponentDisconnected ends a game without a winner
type OpponentDisconnected struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// SearchCancelled confirms a match request was withdrawn
type SearchCancelled struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// Error reports a problem with the recipient's own message
type Error struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

func (Connected) Kind() NotificationType            { return NotifyConnected }
func (WaitingForOpponent) Kind() NotificationType   { return NotifyWaitingForOpponent }
func (GameStart) Kind() NotificationType            { return NotifyGameStart }
func (WrongAnswer) Kind() NotificationType          { return NotifyWrongAnswer }
func (GameEnd) Kind() NotificationType              { return NotifyGameEnd }
func (OpponentDisconnected) Kind() NotificationType { return NotifyOpponentDisconnected }
func (SearchCancelled) Kind() NotificationType      { return NotifySearchCancelled }
func (Error) Kind() NotificationType                { return NotifyError }

// NewConnected builds the welcome message
func NewConnected(id model.PlayerID, at time.Time) Connected {
	return Connected{
		Type:      NotifyConnected,
		Message:   fmt.Sprintf("Welcome %s!", id),
		Timestamp: at,
	}
}

// NewWaitingForOpponent builds the queued confirmation
func NewWaitingForOpponent(category model.Category) WaitingForOpponent {
	return WaitingForOpponent{
		Type:     NotifyWaitingForOpponent,
		Category: category,
		Message:  "Waiting for an opponent...",
	}
}

// NewGameStart builds the match notice for one side of a session
func NewGameStart(s *model.Session, recipient model.PlayerID) GameStart {
	return GameStart{
		Type:      NotifyGameStart,
		SessionID: s.ID,
		Category:  s.Category,
		Question:  s.Question.Text,
		Opponent:  s.Opponent(recipient),
	}
}

// NewWrongAnswer builds the incorrect answer reply. The hint is the
// character length of the correct answer.
func NewWrongAnswer(hint int) WrongAnswer {
	return WrongAnswer{
		Type:    NotifyWrongAnswer,
		Message: "Wrong answer! Try again.",
		Hint:    hint,
	}
}

// NewGameEnd builds the result for one side of a resolved session
func NewGameEnd(s *model.Session, winner, recipient model.PlayerID, points int) GameEnd {
	isWinner := recipient == winner
	msg := fmt.Sprintf("%s won!", winner)
	earned := 0
	if isWinner {
		earned = points
		msg = fmt.Sprintf("You won! +%d points", points)
	}
	return GameEnd{
		Type:          NotifyGameEnd,
		Winner:        winner,
		CorrectAnswer: s.Question.Answer,
		IsWinner:      isWinner,
		Points:        earned,
		Category:      s.Category,
		Message:       msg,
	}
}

// NewOpponentDisconnected builds the notice for the remaining participant
func NewOpponentDisconnected() OpponentDisconnected {
	return OpponentDisconnected{
		Type:    NotifyOpponentDisconnected,
		Message: "Your opponent disconnected",
	}
}

// NewSearchCancelled builds the cancel acknowledgement
func NewSearchCancelled() SearchCancelled {
	return SearchCancelled{
		Type:    NotifySearchCancelled,
		Message: "Search cancelled",
	}
}

// NewError builds an error notification
func NewError(message string) Error {
	return Error{
		Type:    NotifyError,
		Message: message,
	}
}

// Encode serialises a notification for the wire
func Encode(n Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", n.Kind(), err)
	}
	return data, nil
}
