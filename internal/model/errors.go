package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrInvalidUsername = errors.New("invalid username")

	// Content errors
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoQuestions     = errors.New("question bank not loaded")

	// Game errors
	ErrNoActiveGame  = errors.New("no active game")
	ErrAlreadyInGame = errors.New("player is already in a game")

	// Protocol errors
	ErrInvalidFormat      = errors.New("invalid format")
	ErrUnknownMessageType = errors.New("unknown message type")
)
