// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand runs the OAuth proxy server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "proxy"},
		Usage:   "Run the Spotify OAuth proxy server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: r.Serve,
	}
}

// watchCommand launches the widget TUI.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"tui", "widgets"},
		Usage:   "Launch the listening-activity widget TUI",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "proxy",
				Usage: "Proxy base URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "Failure policy: retry or silent",
			},
		},
		Action: r.Watch,
	}
}

// loginCommand starts the browser OAuth flow against a running proxy.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Open the proxy's /login page to connect a Spotify account",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the login URL instead of opening a browser",
			},
		},
		Action: r.Login,
	}
}

// statusCommand checks proxy health and authentication state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check proxy health and authentication state (calls /health)",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// setupCommand handles configuration scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create a config.toml from the embedded template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}
