package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/widget"
	"github.com/urfave/cli/v3"
)

const defaultWatchLog = "./tmp/nowplaying-watch.log"

// Watch launches the widget TUI against a running proxy.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	proxyURL := config.Client.ProxyURL
	if v := cmd.String("proxy"); v != "" {
		proxyURL = v
	}

	policy := widget.ParseFailurePolicy(config.Client.FailurePolicy)
	if v := cmd.String("policy"); v != "" {
		policy = widget.ParseFailurePolicy(v)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := config.Client.LogPath
	if logPath == "" {
		logPath = defaultWatchLog
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	client := widget.NewClient(proxyURL, r.httpClient)
	model := widget.NewModel(ctx, client, policy, fileLogger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
