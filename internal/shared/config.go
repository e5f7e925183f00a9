package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LogLevel string         `toml:"log_level"`
	LogFile  string         `toml:"log_file"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	Proxy    ProxyConfig    `toml:"proxy"`
	Player   PlayerConfig   `toml:"player"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// YouTubeConfig contains YouTube Data API credentials and the curated playlist.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	AccessToken       string  `toml:"access_token"`
	PlaylistID        string  `toml:"playlist_id"`
	BaseURL           string  `toml:"base_url"`
	WatchURL          string  `toml:"watch_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ProxyConfig points the player at the playlist endpoint served by `jukebox serve`.
type ProxyConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// PlayerConfig configures the external mpv process.
type PlayerConfig struct {
	Binary      string   `toml:"binary"`
	Socket      string   `toml:"socket"`
	LoadTimeout Duration `toml:"load_timeout"`
	Mode        string   `toml:"mode"`
	NoVideo     bool     `toml:"no_video"`
	ExtraArgs   []string `toml:"extra_args"`
}

// ServerConfig contains HTTP server and cache settings for the playlist proxy.
type ServerConfig struct {
	Host                 string   `toml:"host"`
	Port                 int      `toml:"port"`
	MaxAge               Duration `toml:"max_age"`
	StaleWhileRevalidate Duration `toml:"stale_while_revalidate"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Duration is a [time.Duration] that decodes from TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
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
