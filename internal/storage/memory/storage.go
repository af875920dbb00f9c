package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	players map[string]*model.Player
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[string]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.Username]; ok {
		return model.ErrUsernameExists
	}
	stored := *player
	s.players[player.Username] = &stored
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	found := *player
	return &found, nil
}

func (s *Storage) PlayerExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[username]
	return ok, nil
}

func (s *Storage) TouchPlayer(ctx context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[username]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.LastLoginAt = at
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, username)
	return nil
}

func (s *Storage) IncrementScore(ctx context.Context, username string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[username]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}
	player.Score += delta
	return player.Score, nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return []model.LeaderboardEntry{}, nil
	}

	s.mu.RLock()
	players := lo.Values(s.players)
	ranked := make([]model.Player, 0, len(players))
	for _, p := range players {
		ranked = append(ranked, *p)
	}
	s.mu.RUnlock()

	slices.SortFunc(ranked, func(a, b model.Player) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return lo.Map(ranked, func(p model.Player, i int) model.LeaderboardEntry {
		return model.LeaderboardEntry{Rank: i + 1, Username: p.Username, Score: p.Score}
	}), nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}
