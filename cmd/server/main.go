package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/mindmaze/internal/api"
	"github.com/mcoot/mindmaze/internal/config"
	"github.com/mcoot/mindmaze/internal/factory"
	redisstorage "github.com/mcoot/mindmaze/internal/storage/redis"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := config.NewCommand(&config.Config{}, run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		QuestionsPath:   cfg.Questions,
		Logger:          logger,
		StorageType:     cfg.Storage,
		ScoreBufferSize: cfg.ScoreBuffer,
		SendBufferSize:  cfg.SendBuffer,
	}
	if cfg.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			logger.Error("shutdown incomplete", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Content:        app.Content,
		Players:        app.Players,
		Engine:         app.Engine,
		RealtimeServer: app.Realtime,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Bind
	serverCfg.Port = cfg.Port
	server := api.NewServer(router, serverCfg, logger)

	logger.Info("server configured",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
		slog.Int("categories", len(app.Content.CategoryNames())))

	if err := server.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
