package model

import "time"

// PlayerID identifies a participant. It is supplied by the client when it
// connects and doubles as the account username.
type PlayerID string

// Player is a registered account with its accumulated score
type Player struct {
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}

// LeaderboardEntry is a single ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank     int
	Username string
	Score    int
}
