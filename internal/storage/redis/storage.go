package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Profiles are JSON strings; scores live in a single sorted set so the
// leaderboard is one range query.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// CreatePlayer writes the profile and its zero score in one transaction.
// New players always start at zero whatever Score the caller set.
func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	profile := *player
	profile.Score = 0
	data, err := json.Marshal(&profile)
	if err != nil {
		return err
	}

	key := s.keys.player(player.Username)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrUsernameExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, s.keys.scores(), redis.Z{Score: 0, Member: player.Username})
			return nil
		})
		return err
	}, key)

	// The key was written between the check and the commit
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrUsernameExists
	}
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, s.keys.player(username))
	scoreCmd := pipe.ZScore(ctx, s.keys.scores(), username)
	_, _ = pipe.Exec(ctx)

	data, err := getCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}

	score, err := scoreCmd.Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	player.Score = int(score)
	return &player, nil
}

func (s *Storage) PlayerExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keys.player(username)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) TouchPlayer(ctx context.Context, username string, at time.Time) error {
	key := s.keys.player(username)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		player.LastLoginAt = at

		updated, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)
}

func (s *Storage) DeletePlayer(ctx context.Context, username string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.player(username))
	pipe.ZRem(ctx, s.keys.scores(), username)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) IncrementScore(ctx context.Context, username string, delta int) (int, error) {
	exists, err := s.PlayerExists(ctx, username)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, model.ErrPlayerNotFound
	}

	score, err := s.client.ZIncrBy(ctx, s.keys.scores(), float64(delta), username).Result()
	if err != nil {
		return 0, err
	}
	return int(score), nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return []model.LeaderboardEntry{}, nil
	}

	ranked, err := s.client.ZRevRangeWithScores(ctx, s.keys.scores(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		username, _ := z.Member.(string)
		entries = append(entries, model.LeaderboardEntry{
			Rank:     i + 1,
			Username: username,
			Score:    int(z.Score),
		})
	}
	return entries, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	count, err := s.client.ZCard(ctx, s.keys.scores()).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
