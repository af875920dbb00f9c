// Package config builds the server command line and resolves its settings
// from flags, MINDMAZE_* environment variables and .env files.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "MINDMAZE"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds the server settings
type Config struct {
	Bind        string
	Port        int
	Storage     string
	RedisURL    string
	Questions   string
	LogLevel    string
	ScoreBuffer int
	SendBuffer  int
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("--redis-url is required with --storage=redis")
		}
	default:
		return fmt.Errorf("invalid storage %q (must be memory or redis)", c.Storage)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.ScoreBuffer < 1 || c.SendBuffer < 1 {
		return errors.New("buffer sizes must be positive")
	}
	return nil
}

// Level parses the configured log level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// LoadDotEnv loads environment variables from the given files, or from
// .env in the working directory when none are given. Missing files are
// skipped and variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// RunFunc starts the server with validated settings
type RunFunc func(ctx context.Context, cfg *Config) error

// NewCommand creates the server root command. Flags fall back to
// MINDMAZE_<FLAG> environment variables, so environment changes must be
// made before calling it.
func NewCommand(cfg *Config, run RunFunc) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "mindmaze-server",
		Short: "Real-time trivia matchmaking server",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()

	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	flags.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: MINDMAZE_BIND)")
	flags.IntVarP(&cfg.Port, "port", "p", 8000, "port to listen on (env: MINDMAZE_PORT)")
	flags.StringVar(&cfg.Storage, "storage", StorageMemory, "account storage backend: memory or redis (env: MINDMAZE_STORAGE)")
	flags.StringVar(&cfg.RedisURL, "redis-url", "", "redis connection url (env: MINDMAZE_REDIS_URL)")
	flags.StringVar(&cfg.Questions, "questions", "", "path to a JSON question bank, built-in bank if empty (env: MINDMAZE_QUESTIONS)")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error (env: MINDMAZE_LOG_LEVEL)")
	flags.IntVar(&cfg.ScoreBuffer, "score-buffer", 256, "pending score writes held before dropping (env: MINDMAZE_SCORE_BUFFER)")
	flags.IntVar(&cfg.SendBuffer, "send-buffer", 64, "outbound messages queued per connection (env: MINDMAZE_SEND_BUFFER)")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = flags.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
