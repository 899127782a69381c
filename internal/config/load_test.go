package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

// isolate points HOME at an empty directory and clears every mapped variable.
func isolate(t *testing.T) {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	t.Setenv(PathEnvVar, "")
	for key := range envMappings {
		name := strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	os.Unsetenv(PathEnvVar)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":5000" {
		t.Errorf("Server.Addr = %q, want :5000", cfg.Server.Addr)
	}
	if cfg.Classifier.Concurrency != 1 {
		t.Errorf("Classifier.Concurrency = %d, want 1", cfg.Classifier.Concurrency)
	}
	if cfg.Classifier.TrackTimeout != 10*time.Second {
		t.Errorf("Classifier.TrackTimeout = %v, want 10s", cfg.Classifier.TrackTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Spotify.ClientID != "" || cfg.Genius.AccessToken != "" {
		t.Errorf("expected empty credentials, got %+v %+v", cfg.Spotify, cfg.Genius)
	}
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("SPOTIPY_CLIENT_ID", "spotipy-id")
	t.Setenv("SPOTIPY_CLIENT_SECRET", "spotipy-secret")
	t.Setenv("GENIUS_ACCESS_TOKEN", "genius-token")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EXTRACT_CONCURRENCY", "4")
	t.Setenv("TRACK_TIMEOUT", "3s")
	t.Setenv("LYRICS_RATE_PER_SECOND", "2.5")
	t.Setenv("DATABASE_URL", "postgres://localhost/taste")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"client id", cfg.Spotify.ClientID, "spotipy-id"},
		{"client secret", cfg.Spotify.ClientSecret, "spotipy-secret"},
		{"genius token", cfg.Genius.AccessToken, "genius-token"},
		{"addr", cfg.Server.Addr, ":8080"},
		{"log level", cfg.Logging.Level, "debug"},
		{"concurrency", cfg.Classifier.Concurrency, 4},
		{"track timeout", cfg.Classifier.TrackTimeout, 3 * time.Second},
		{"lyrics rate", cfg.Genius.RatePerSecond, 2.5},
		{"database url", cfg.Database.URL, "postgres://localhost/taste"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadSpotifyEnvPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "SPOTIFY_ID alone",
			env:  map[string]string{"SPOTIFY_ID": "legacy-id"},
			want: "legacy-id",
		},
		{
			name: "spotipy names win",
			env:  map[string]string{"SPOTIFY_ID": "legacy-id", "SPOTIPY_CLIENT_ID": "spotipy-id"},
			want: "spotipy-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Spotify.ClientID != tt.want {
				t.Errorf("ClientID = %q, want %q", cfg.Spotify.ClientID, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "taste.yaml")
	content := `
spotify:
  client_id: file-id
server:
  addr: ":9000"
classifier:
  concurrency: 8
  definitions_path: /etc/taste/genres.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spotify.ClientID != "file-id" {
		t.Errorf("ClientID = %q, want file-id", cfg.Spotify.ClientID)
	}
	if cfg.Classifier.Concurrency != 8 || cfg.Classifier.DefinitionsPath != "/etc/taste/genres.yaml" {
		t.Errorf("Classifier = %+v", cfg.Classifier)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("Server.Addr = %q, want env override :9100", cfg.Server.Addr)
	}
}

func TestLoadHomeConfig(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	if err := os.WriteFile(filepath.Join(home, ".taste-profile.yaml"), []byte("logging:\n  format: console\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		path    string
		wantErr string
	}{
		{
			name:    "missing explicit file",
			path:    "/nonexistent/taste.yaml",
			wantErr: "config file",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: "Level",
		},
		{
			name:    "zero concurrency",
			env:     map[string]string{"EXTRACT_CONCURRENCY": "0"},
			wantErr: "Concurrency",
		},
		{
			name:    "negative track timeout",
			env:     map[string]string{"TRACK_TIMEOUT": "-1s"},
			wantErr: "TrackTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
