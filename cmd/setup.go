package main

import (
	"context"
	"fmt"

	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml template for the user to fill in.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	if err := r.writePlain("✓ Config written to %s\n", configPath); err != nil {
		return err
	}
	return r.writePlain("Fill in credentials.spotify and run 'nowplaying serve'.\n")
}
