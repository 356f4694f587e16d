package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Database    DatabaseConfig    `toml:"database"`
	Input       InputConfig       `toml:"input"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the symmetric key pair used for the
// client-credentials token exchange.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// APIConfig contains remote API endpoints and the retry policy for the
// resilient requester.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TokenURL       string  `toml:"token_url"`
	MaxRetries     int     `toml:"max_retries"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	BackoffSeconds int     `toml:"backoff_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database location and pool settings.
// SchemaDir optionally points at a directory of *.sql definition files;
// when empty the embedded schema is used.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	SchemaDir    string `toml:"schema_dir"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// InputConfig locates the newline-delimited id list files
// (album_ids.txt, artist_ids.txt, track_ids.txt, playlist_ids.txt).
type InputConfig struct {
	Dir string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
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
