package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoachau/nowplaying/internal/shared"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("register returns all commands", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"serve", "watch", "login", "status", "setup"} {
			if !names[want] {
				t.Errorf("command %q not registered", want)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"status": "ok"}, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := output.String(); got != "{\"status\":\"ok\"}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}

func TestStatusCommand(t *testing.T) {
	run := func(t *testing.T, authenticated bool, args ...string) string {
		t.Helper()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			if authenticated {
				w.Write([]byte(`{"status":"ok","authenticated":true}`))
			} else {
				w.Write([]byte(`{"status":"ok","authenticated":false}`))
			}
		}))
		defer srv.Close()

		config := shared.DefaultConfig()
		config.Client.ProxyURL = srv.URL

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:     config,
			Output:     output,
			HTTPClient: srv.Client(),
			Logger:     shared.NewLogger(&bytes.Buffer{}),
		})

		app := appCommand(runner)
		argv := append([]string{"nowplaying", "status", "--config", filepath.Join(t.TempDir(), "missing.toml")}, args...)
		if err := app.Run(context.Background(), argv); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		return output.String()
	}

	t.Run("connected", func(t *testing.T) {
		out := run(t, true)
		if !strings.Contains(out, "spotify: connected") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("not connected", func(t *testing.T) {
		out := run(t, false)
		if !strings.Contains(out, "not connected") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		out := run(t, true, "--json")
		if !strings.Contains(out, `"authenticated": true`) {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("output write failure surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","authenticated":true}`))
		}))
		defer srv.Close()

		config := shared.DefaultConfig()
		config.Client.ProxyURL = srv.URL

		runner := NewRunner(RunnerOpts{
			Config:     config,
			Output:     failWriter{},
			HTTPClient: srv.Client(),
			Logger:     shared.NewLogger(&bytes.Buffer{}),
		})

		app := appCommand(runner)
		argv := []string{"nowplaying", "status", "--config", filepath.Join(t.TempDir(), "missing.toml")}
		if err := app.Run(context.Background(), argv); err == nil {
			t.Error("expected an error when the output writer fails")
		}
	})
}

func TestSetupConfigCommand(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output: output,
			Logger: shared.NewLogger(&bytes.Buffer{}),
		})

		app := appCommand(runner)
		if err := app.Run(context.Background(), []string{"nowplaying", "setup", "config", "--config", path}); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("config file not created: %v", err)
		}
		if !strings.Contains(output.String(), "Config written") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("# existing"), 0644); err != nil {
			t.Fatal(err)
		}

		runner := NewRunner(RunnerOpts{
			Output: &bytes.Buffer{},
			Logger: shared.NewLogger(&bytes.Buffer{}),
		})

		app := appCommand(runner)
		if err := app.Run(context.Background(), []string{"nowplaying", "setup", "config", "--config", path}); err == nil {
			t.Error("expected error for existing config file")
		}
	})
}

func TestLoginCommand(t *testing.T) {
	t.Run("no-browser prints the login URL", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Client.ProxyURL = "http://127.0.0.1:9999"

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: config,
			Output: output,
			Logger: shared.NewLogger(&bytes.Buffer{}),
		})

		app := appCommand(runner)
		argv := []string{"nowplaying", "login", "--no-browser", "--config", filepath.Join(t.TempDir(), "missing.toml")}
		if err := app.Run(context.Background(), argv); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if !strings.Contains(output.String(), "http://127.0.0.1:9999/login") {
			t.Errorf("login URL missing from output %q", output.String())
		}
	})
}
