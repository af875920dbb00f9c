package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/mindmaze/internal/dependencies/clock"
	"github.com/mcoot/mindmaze/internal/dependencies/random"
	"github.com/mcoot/mindmaze/internal/realtime"
	"github.com/mcoot/mindmaze/internal/services/content"
	"github.com/mcoot/mindmaze/internal/services/game"
	"github.com/mcoot/mindmaze/internal/services/players"
	"github.com/mcoot/mindmaze/internal/services/scoring"
	"github.com/mcoot/mindmaze/internal/storage"
	"github.com/mcoot/mindmaze/internal/storage/memory"
	redisstorage "github.com/mcoot/mindmaze/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Content  *content.Service
	Players  *players.Service
	Scores   *scoring.Recorder
	Registry *realtime.Registry
	Engine   *game.Engine
	Realtime *realtime.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionsPath is a JSON question bank to load (optional)
	// If empty, the built-in bank is used
	QuestionsPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ScoreBufferSize bounds pending score writes (optional)
	ScoreBufferSize int
	// SendBufferSize bounds queued outbound messages per connection (optional)
	SendBufferSize int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg, logger)

	if cfg.QuestionsPath != "" {
		err = app.Content.LoadFromFile(cfg.QuestionsPath)
	} else {
		err = app.Content.LoadDefault()
	}
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("load questions: %w", err)
	}

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	contentService := content.New(rnd, logger)
	playerService := players.New(store, clk, logger)
	recorder := scoring.NewRecorder(store, cfg.ScoreBufferSize, logger)
	registry := realtime.NewRegistry(logger)
	engine := game.NewEngine(registry, contentService, recorder, rnd, clk, logger)
	wsHandler := realtime.NewHandler(engine, cfg.SendBufferSize, logger)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Content:  contentService,
		Players:  playerService,
		Scores:   recorder,
		Registry: registry,
		Engine:   engine,
		Realtime: wsHandler,
	}
}

// Close flushes pending score writes and releases the storage backend
func (a *App) Close(ctx context.Context) error {
	err := a.Scores.Close(ctx)
	if closer, ok := a.Storage.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
