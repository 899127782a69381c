// Package config loads application configuration from defaults, an optional
// YAML file, a .env file and the environment, in increasing precedence.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Spotify    SpotifyConfig    `koanf:"spotify"`
	Genius     GeniusConfig     `koanf:"genius"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Database   DatabaseConfig   `koanf:"database"`
}

// SpotifyConfig holds client credentials for the Spotify Web API.
// Commands that reach the catalog fail when either is empty.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// GeniusConfig configures the lyrics source. An empty token disables lyric
// sentiment.
type GeniusConfig struct {
	AccessToken   string        `koanf:"access_token"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
}

// ServerConfig configures the HTTP app.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gt=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// LoggingConfig is passed to logging.Init at startup.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ClassifierConfig tunes track extraction and names the genre definitions.
type ClassifierConfig struct {
	// DefinitionsPath is a JSON or YAML definitions document. Ignored when a
	// database URL is set.
	DefinitionsPath string        `koanf:"definitions_path"`
	Concurrency     int           `koanf:"concurrency" validate:"gte=1,lte=50"`
	TrackTimeout    time.Duration `koanf:"track_timeout" validate:"gt=0"`
}

// DatabaseConfig points at an optional PostgreSQL genre definition store.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

func defaultConfig() *Config {
	return &Config{
		Genius: GeniusConfig{
			RatePerSecond: 5,
			Timeout:       10 * time.Second,
		},
		Server: ServerConfig{
			Addr:              ":5000",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      90 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Classifier: ClassifierConfig{
			DefinitionsPath: "definitions/genres.json",
			Concurrency:     1,
			TrackTimeout:    10 * time.Second,
		},
	}
}
