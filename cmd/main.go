package main

import (
	"context"
	"os"

	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	shared.LoadDotenv()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if err := appCommand(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func appCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "nowplaying",
		Usage:    "Spotify listening-activity proxy and widget TUI",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}
