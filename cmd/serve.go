package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hoachau/nowplaying/internal/auth"
	"github.com/hoachau/nowplaying/internal/relay"
	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/spotify"
	"github.com/urfave/cli/v3"
)

// Serve runs the OAuth proxy until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if err := config.ValidateCredentials(); err != nil {
		return fmt.Errorf("cannot start proxy: %w", err)
	}

	store := auth.NewStore()
	manager := auth.NewManager(config.Credentials.Spotify, store, r.httpClient, r.logger)
	api := spotify.NewClient(manager, r.httpClient)

	server := relay.NewServer(relay.ServerOpts{
		Addr:        config.Server.Addr(),
		FrontendURI: config.Server.FrontendURI,
		RateLimit:   config.Server.RateLimit,
		Auth:        manager,
		Source:      api,
		Logger:      r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting proxy",
		"addr", config.Server.Addr(),
		"frontend", config.Server.FrontendURI,
		"redirect", config.Credentials.Spotify.RedirectURI,
	)

	return server.Run(ctx)
}
