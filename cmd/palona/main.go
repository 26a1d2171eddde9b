package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/cli"
)

func main() {
	// logs go to stderr so the TUI owns stdout
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cli.Execute()
}
