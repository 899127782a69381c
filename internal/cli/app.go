package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/justestif/go-spotify-taste-profile/internal/config"
	"github.com/justestif/go-spotify-taste-profile/internal/db"
	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/lyrics"
	"github.com/justestif/go-spotify-taste-profile/internal/profile"
	"github.com/justestif/go-spotify-taste-profile/internal/sentiment"
	"github.com/justestif/go-spotify-taste-profile/internal/spotify"
)

// app holds the collaborators shared by the serve and classify commands.
type app struct {
	catalog *spotify.Client
	service *profile.Service
	closers []func()
}

// newApp builds the classification pipeline from configuration.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	catalog, err := spotify.NewFromCredentials(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("creating Spotify client: %w", err)
	}
	a.catalog = catalog

	src, closeSrc, err := definitionSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeSrc != nil {
		a.closers = append(a.closers, closeSrc)
	}
	tables := profile.LoadTables(ctx, src)

	finder, err := lyricsFinder(cfg.Genius)
	if err != nil {
		a.Close()
		return nil, err
	}
	scorer := sentiment.NewScorer(finder, nil)

	extractor := profile.NewExtractor(catalog, scorer, tables,
		profile.WithConcurrency(cfg.Classifier.Concurrency),
		profile.WithTrackTimeout(cfg.Classifier.TrackTimeout),
	)
	a.service = profile.NewService(extractor)
	return a, nil
}

// Close releases resources held by the app.
func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

// definitionSource picks the database when a URL is configured and the
// definitions file otherwise. The returned close func may be nil.
func definitionSource(ctx context.Context, cfg *config.Config) (profile.DefinitionSource, func(), error) {
	if cfg.Database.URL != "" {
		database, err := openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return database.Definitions(), database.Close, nil
	}
	if cfg.Classifier.DefinitionsPath == "" {
		return nil, nil, nil
	}
	return profile.FileSource{Path: cfg.Classifier.DefinitionsPath}, nil, nil
}

func openDatabase(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return database, nil
}

// lyricsFinder returns nil, disabling lyric sentiment, when no Genius token
// is configured.
func lyricsFinder(cfg config.GeniusConfig) (sentiment.LyricsFinder, error) {
	client, err := lyrics.NewClient(lyrics.Config{
		AccessToken:   cfg.AccessToken,
		RatePerSecond: cfg.RatePerSecond,
		Timeout:       cfg.Timeout,
	})
	if errors.Is(err, lyrics.ErrMissingToken) {
		logging.Warn().Msg("GENIUS_ACCESS_TOKEN not set, lyric sentiment disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating lyrics client: %w", err)
	}
	return client, nil
}
