package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/mindmaze/internal/model"
)

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// Player represents an account in API responses
type Player struct {
	Username    string     `json:"username"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	var lastLogin *time.Time
	if !p.LastLoginAt.IsZero() {
		at := p.LastLoginAt
		lastLogin = &at
	}
	return Player{
		Username:    p.Username,
		Score:       p.Score,
		CreatedAt:   p.CreatedAt,
		LastLoginAt: lastLogin,
	}
}

// PlayerResponse wraps a single player
type PlayerResponse struct {
	Player Player `json:"player"`
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Leaderboard is the leaderboard response
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardFromModel converts ranked entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) Leaderboard {
	return Leaderboard{
		Leaderboard: lo.Map(entries, func(e model.LeaderboardEntry, _ int) LeaderboardEntry {
			return LeaderboardEntry{Rank: e.Rank, Username: e.Username, Score: e.Score}
		}),
	}
}

// Categories lists question counts and point values per category
type Categories struct {
	Categories map[model.Category]int `json:"categories"`
	Points     map[model.Category]int `json:"points"`
}

// CategoriesFromCounts builds the response from question counts
func CategoriesFromCounts(counts map[model.Category]int) Categories {
	return Categories{
		Categories: counts,
		Points: lo.MapValues(counts, func(_ int, c model.Category) int {
			return model.PointsFor(c)
		}),
	}
}

// Questions lists question texts of one category. Answers are never included.
type Questions struct {
	Category  model.Category `json:"category"`
	Points    int            `json:"points"`
	Questions []string       `json:"questions"`
}

// QuestionsFromModel converts questions, dropping their answers
func QuestionsFromModel(category model.Category, questions []model.Question) Questions {
	return Questions{
		Category: category,
		Points:   model.PointsFor(category),
		Questions: lo.Map(questions, func(q model.Question, _ int) string {
			return q.Text
		}),
	}
}

// Stats is the aggregate occupancy response
type Stats struct {
	ActiveGames       int `json:"active_games"`
	WaitingPlayers    int `json:"waiting_players"`
	ConnectedPlayers  int `json:"connected_players"`
	RegisteredPlayers int `json:"registered_players"`
}
