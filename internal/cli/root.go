// Package cli wires the command surface of the assistant client.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/api"
	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/archive"
	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/config"
	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/session"
)

var apiBaseURL string

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "palona",
		Short:   "Terminal client for the PalonaAI food-recommendation assistant",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "Backend base URL (default: PALONA_API_BASE_URL or http://localhost:8000)")

	rootCmd.AddCommand(
		newChatCommand(),
		newSendCommand(),
		newMenuCommand(),
		newMetricsCommand(),
		newHistoryCommand(),
		newDevServerCommand(),
	)

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.Load()
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	return cfg
}

func newSessionStore(ctx context.Context, cfg config.Config) (*session.Store, error) {
	var storage session.Storage
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		storage = session.NewRedisStorage(client)
	case "memory":
		storage = session.NewMemoryStorage()
	default:
		storage = session.NewFileStorage(cfg.SessionPath)
	}
	return session.NewStore(ctx, storage, nil)
}

// core bundles the assembled conversation components.
type core struct {
	client     *api.Client
	sessions   *session.Store
	log        *conversation.Log
	controller *conversation.Controller
	gate       *conversation.FeedbackGate
	metrics    *conversation.MetricsCache
}

func buildCore(ctx context.Context, cfg config.Config) (*core, error) {
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var archiver conversation.Archiver
	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			// telemetry only; the conversation works without it
			slog.Warn("transcript archive unavailable", "path", cfg.ArchivePath, "error", err)
		} else {
			archiver = store
		}
	}

	log := conversation.NewLog()
	metrics := conversation.NewMetricsCache(sessions, client, nil)
	controller := conversation.NewController(log, sessions, client, metrics, archiver, nil)
	gate := conversation.NewFeedbackGate(log, sessions, client, nil)

	return &core{
		client:     client,
		sessions:   sessions,
		log:        log,
		controller: controller,
		gate:       gate,
		metrics:    metrics,
	}, nil
}
