package storage

import (
	"context"
	"time"

	"github.com/mcoot/mindmaze/internal/model"
)

// Storage defines the interface for account and score persistence
type Storage interface {
	// CreatePlayer stores a new account. Fails with model.ErrUsernameExists
	// when the username is taken.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, username string) (*model.Player, error)
	PlayerExists(ctx context.Context, username string) (bool, error)
	// TouchPlayer records a login at the given time
	TouchPlayer(ctx context.Context, username string, at time.Time) error
	DeletePlayer(ctx context.Context, username string) error

	// IncrementScore adds delta to an existing account and returns the new
	// score. Fails with model.ErrPlayerNotFound for unknown usernames.
	IncrementScore(ctx context.Context, username string, delta int) (int, error)
	// TopScores returns up to limit accounts ordered by descending score
	TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	CountPlayers(ctx context.Context) (int, error)
}
