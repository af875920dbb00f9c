package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/mindmaze/internal/model"
)

// Inbound message types
const (
	TypeFindMatch    = "find_match"
	TypeSubmitAnswer = "submit_answer"
	TypeCancelSearch = "cancel_search"
)

// Event is a decoded, validated client message. The set of implementations
// is closed: FindMatch, SubmitAnswer and CancelSearch.
type Event interface{ isEvent() }

// FindMatch asks to be paired with an opponent in a category.
// An empty category means the default one.
type FindMatch struct {
	Category string `validate:"max=64"`
}

// SubmitAnswer is an answer attempt for the sender's active game
type SubmitAnswer struct {
	Answer string `validate:"max=256"`
}

// CancelSearch withdraws an open match request
type CancelSearch struct{}

func (FindMatch) isEvent()    {}
func (SubmitAnswer) isEvent() {}
func (CancelSearch) isEvent() {}

// envelope is the wire shape of every inbound message
type envelope struct {
	Type     string  `json:"type"`
	Category *string `json:"category,omitempty"`
	Answer   *string `json:"answer,omitempty"`
}

var validate = validator.New()

// Decode parses and validates a raw client message.
// Payloads that are not a JSON object with a string "type" fail with
// model.ErrInvalidFormat; unrecognised types fail with
// model.ErrUnknownMessageType.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", model.ErrInvalidFormat)
	}

	var ev Event
	switch env.Type {
	case TypeFindMatch:
		ev = FindMatch{Category: deref(env.Category)}
	case TypeSubmitAnswer:
		ev = SubmitAnswer{Answer: deref(env.Answer)}
	case TypeCancelSearch:
		ev = CancelSearch{}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}

	if err := validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}
	return ev, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
