package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Credentials CredentialsConfig `toml:"credentials"`
	Client      ClientConfig      `toml:"client"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ServerConfig contains proxy HTTP server settings.
type ServerConfig struct {
	Host        string  `toml:"host"`
	Port        int     `toml:"port"`
	FrontendURI string  `toml:"frontend_uri"`
	RateLimit   float64 `toml:"rate_limit"`
}

// ClientConfig contains widget client settings.
type ClientConfig struct {
	ProxyURL      string `toml:"proxy_url"`
	FailurePolicy string `toml:"failure_policy"`
	LogPath       string `toml:"log_path"`
}

// Addr returns the host:port listen address for the proxy server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotenv loads a .env file into the process environment if one exists.
// Missing files are not an error; the deployment may configure the
// environment directly.
func LoadDotenv() {
	_ = godotenv.Load()
}

// applyEnv overrides config values from the environment, matching the
// variable names the original deployment used.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
	if v := os.Getenv("FRONTEND_URI"); v != "" {
		c.Server.FrontendURI = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PROXY_URL"); v != "" {
		c.Client.ProxyURL = v
	}
}

// ValidateCredentials checks that the Spotify client credentials required
// by the proxy are present.
func (c *Config) ValidateCredentials() error {
	spotify := c.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientID == "your_spotify_client_id" {
		return fmt.Errorf("%w: spotify client_id", ErrMissingCredentials)
	}
	if spotify.ClientSecret == "" || spotify.ClientSecret == "your_spotify_client_secret" {
		return fmt.Errorf("%w: spotify client_secret", ErrMissingCredentials)
	}
	if spotify.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri", ErrMissingCredentials)
	}
	return nil
}
