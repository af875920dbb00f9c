package players

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/mindmaze/internal/dependencies/clock"
	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/storage"
)

const (
	// DefaultLeaderboardSize is used when no limit is requested
	DefaultLeaderboardSize = 10
	// MaxLeaderboardSize caps the leaderboard limit
	MaxLeaderboardSize = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

type credentials struct {
	Username string `validate:"required,min=3,max=32,username"`
}

// ValidateUsername checks a username against the account naming rules
func ValidateUsername(username string) error {
	if err := validate.Struct(credentials{Username: username}); err != nil {
		return fmt.Errorf("%w: %q", model.ErrInvalidUsername, username)
	}
	return nil
}

// Service manages player accounts and the leaderboard
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new players service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "players")),
	}
}

// Register creates an account with a zero score
func (s *Service) Register(ctx context.Context, username string) (*model.Player, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	player := &model.Player{
		Username:  username,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered", slog.String("username", username))
	return player, nil
}

// Login records a login for an existing account and returns it
func (s *Service) Login(ctx context.Context, username string) (*model.Player, error) {
	if err := s.storage.TouchPlayer(ctx, username, s.clock.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("player logged in", slog.String("username", username))
	return s.storage.GetPlayer(ctx, username)
}

// Get returns an account by username
func (s *Service) Get(ctx context.Context, username string) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, username)
}

// Leaderboard returns the top accounts by score. Non-positive limits use
// the default size and large ones are capped.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardSize
	case limit > MaxLeaderboardSize:
		limit = MaxLeaderboardSize
	}
	return s.storage.TopScores(ctx, limit)
}

// Count returns the number of registered accounts
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountPlayers(ctx)
}
