package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/go-homedir"
)

// PathEnvVar names an environment variable holding the config file path.
const PathEnvVar = "TASTE_PROFILE_CONFIG"

// DefaultPaths are searched in order when no config file is given.
var DefaultPaths = []string{
	"~/.taste-profile.yaml",
	"config.yaml",
}

// envMappings maps environment variable names (lower-cased) to config paths.
var envMappings = map[string]string{
	"spotipy_client_id":      "spotify.client_id",
	"spotipy_client_secret":  "spotify.client_secret",
	"spotify_id":             "spotify.client_id",
	"spotify_secret":         "spotify.client_secret",
	"genius_access_token":    "genius.access_token",
	"lyrics_rate_per_second": "genius.rate_per_second",
	"genius_timeout":         "genius.timeout",
	"http_addr":              "server.addr",
	"rate_limit_requests":    "server.rate_limit_requests",
	"rate_limit_window":      "server.rate_limit_window",
	"shutdown_timeout":       "server.shutdown_timeout",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
	"definitions_path":       "classifier.definitions_path",
	"extract_concurrency":    "classifier.concurrency",
	"track_timeout":          "classifier.track_timeout",
	"database_url":           "database.url",
}

// shadowedBy lists variables that lose to another variable for the same path.
var shadowedBy = map[string]string{
	"spotify_id":     "SPOTIPY_CLIENT_ID",
	"spotify_secret": "SPOTIPY_CLIENT_SECRET",
}

var validate = validator.New()

// Load builds the configuration. path names a YAML config file; when empty,
// $TASTE_PROFILE_CONFIG and then DefaultPaths are tried. A .env file in the
// working directory is loaded into the environment first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// findConfigFile resolves the config file to load. An explicitly named file
// must exist; default locations are optional.
func findConfigFile(path string) (string, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return "", fmt.Errorf("expanding config path: %w", err)
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return expanded, nil
	}

	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		return findConfigFile(envPath)
	}

	for _, p := range DefaultPaths {
		expanded, err := homedir.Expand(p)
		if err != nil {
			continue
		}
		if _, err := os.Stat(expanded); err == nil {
			return expanded, nil
		}
	}
	return "", nil
}

// envTransform maps environment variable names to config paths. Unmapped
// variables return "" and are skipped.
func envTransform(key string) string {
	key = strings.ToLower(key)
	if winner, ok := shadowedBy[key]; ok && os.Getenv(winner) != "" {
		return ""
	}
	return envMappings[key]
}
