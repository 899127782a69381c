package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/metrics"
)

// defaultReleaseDate stands in for a missing release date.
const defaultReleaseDate = "2020"

// Extraction defaults.
const (
	DefaultConcurrency  = 1
	DefaultTrackTimeout = 10 * time.Second
)

// ArtistRef identifies an artist credited on a track.
type ArtistRef struct {
	ID   string
	Name string
}

// CatalogTrack is the track metadata the extractor needs from the catalog.
type CatalogTrack struct {
	ID          string
	Name        string
	Popularity  int
	DurationMs  int
	Explicit    bool
	ReleaseDate string
	Artists     []ArtistRef
}

// Catalog abstracts the music catalog for testing.
type Catalog interface {
	Track(ctx context.Context, id string) (CatalogTrack, error)
	ArtistGenres(ctx context.Context, artistID string) ([]string, error)
}

// SentimentScorer returns the lyric sentiment of a track in [-1, 1].
// Implementations never fail; they return 0 when lyrics are unavailable.
type SentimentScorer interface {
	Score(ctx context.Context, title, artist string) float64
}

// TrackFeature is the per-track record consumed by Aggregate.
type TrackFeature struct {
	TrackID     string
	Popularity  int
	DurationMs  int
	Explicit    bool
	ReleaseYear int
	Tempo       float64
	Genre       GroupVector
	Decade      GroupVector
	Sentiment   float64
	// HasArtist is false when the track listed no artists.
	HasArtist bool
}

// ArtistGenreCache holds normalized genres per artist for a single request.
// Safe for concurrent use; concurrent misses on the same artist may both
// fetch, and the last write wins.
type ArtistGenreCache struct {
	mu     sync.RWMutex
	genres map[string][]string
}

// NewArtistGenreCache creates an empty cache.
func NewArtistGenreCache() *ArtistGenreCache {
	return &ArtistGenreCache{genres: make(map[string][]string)}
}

// Get returns the cached genres for an artist.
func (c *ArtistGenreCache) Get(artistID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.genres[artistID]
	return g, ok
}

// Put stores the genres for an artist.
func (c *ArtistGenreCache) Put(artistID string, genres []string) {
	c.mu.Lock()
	c.genres[artistID] = genres
	c.mu.Unlock()
}

// Len returns the number of cached artists.
func (c *ArtistGenreCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.genres)
}

// Extractor turns catalog track IDs into TrackFeatures.
type Extractor struct {
	catalog      Catalog
	sentiment    SentimentScorer
	tables       *Tables
	concurrency  int
	trackTimeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConcurrency sets how many tracks are extracted in parallel.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTrackTimeout bounds the time spent on a single track.
func WithTrackTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.trackTimeout = d
		}
	}
}

// NewExtractor creates an Extractor over the given collaborators.
func NewExtractor(catalog Catalog, sentiment SentimentScorer, tables *Tables, opts ...Option) *Extractor {
	if tables == nil {
		tables = NewTables(nil, nil)
	}
	e := &Extractor{
		catalog:      catalog,
		sentiment:    sentiment,
		tables:       tables,
		concurrency:  DefaultConcurrency,
		trackTimeout: DefaultTrackTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces the feature record for one track, resolving the primary
// artist's genres through cache.
func (e *Extractor) Extract(ctx context.Context, trackID string, cache *ArtistGenreCache) (TrackFeature, error) {
	track, err := e.catalog.Track(ctx, trackID)
	if err != nil {
		return TrackFeature{}, fmt.Errorf("fetching track: %w", err)
	}

	year, err := ParseReleaseYear(track.ReleaseDate)
	if err != nil {
		return TrackFeature{}, err
	}

	f := TrackFeature{
		TrackID:     trackID,
		Popularity:  track.Popularity,
		DurationMs:  track.DurationMs,
		Explicit:    track.Explicit,
		ReleaseYear: year,
		Decade:      e.tables.DecadeWeights(year),
	}

	var artistName string
	var genres []string
	if len(track.Artists) > 0 {
		primary := track.Artists[0]
		artistName = primary.Name
		f.HasArtist = primary.ID != ""
		if f.HasArtist {
			genres, err = e.artistGenres(ctx, primary.ID, cache)
			if err != nil {
				return TrackFeature{}, err
			}
		}
	}

	f.Tempo = e.tables.Tempos.Score(genres)
	f.Genre = e.tables.Genres.GroupScores(genres)
	f.Sentiment = e.sentiment.Score(ctx, track.Name, artistName)

	return f, nil
}

func (e *Extractor) artistGenres(ctx context.Context, artistID string, cache *ArtistGenreCache) ([]string, error) {
	if genres, ok := cache.Get(artistID); ok {
		metrics.ArtistCacheLookups.WithLabelValues("hit").Inc()
		return genres, nil
	}
	metrics.ArtistCacheLookups.WithLabelValues("miss").Inc()

	raw, err := e.catalog.ArtistGenres(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("fetching artist %s: %w", artistID, err)
	}
	genres := NormalizeGenres(raw)
	cache.Put(artistID, genres)
	return genres, nil
}

// ParseReleaseYear extracts the year from a catalog release date such as
// "1997-05-21", "1997-05" or "1997". An empty date counts as 2020.
func ParseReleaseYear(date string) (int, error) {
	if date == "" {
		date = defaultReleaseDate
	}
	head, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("parsing release date %q: %w", date, err)
	}
	return year, nil
}

// ExtractAll extracts every track with a fresh per-request artist cache.
// Tracks that fail are logged and left out; the remaining features keep the
// input order.
func (e *Extractor) ExtractAll(ctx context.Context, trackIDs []string) []TrackFeature {
	if len(trackIDs) == 0 {
		return nil
	}

	cache := NewArtistGenreCache()
	results := make([]*TrackFeature, len(trackIDs))

	type workItem struct {
		index int
		id    string
	}
	workCh := make(chan workItem, len(trackIDs))
	for i, id := range trackIDs {
		workCh <- workItem{index: i, id: id}
	}
	close(workCh)

	workers := min(e.concurrency, len(trackIDs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				f, err := e.extractSafely(ctx, work.id, cache)
				if err != nil {
					reason := "error"
					switch {
					case errors.Is(err, errTrackPanic):
						reason = "panic"
					case errors.Is(err, context.DeadlineExceeded):
						reason = "timeout"
					}
					metrics.TrackFailures.WithLabelValues(reason).Inc()
					logging.Ctx(ctx).Warn().Err(err).Str("track_id", work.id).Msg("skipping track")
					continue
				}
				results[work.index] = &f
			}
		}()
	}
	wg.Wait()

	features := make([]TrackFeature, 0, len(trackIDs))
	for _, f := range results {
		if f != nil {
			features = append(features, *f)
		}
	}
	return features
}

var errTrackPanic = errors.New("panic during track extraction")

// extractSafely runs Extract under the per-track timeout and converts a panic
// into an error so one bad track cannot abort the batch.
func (e *Extractor) extractSafely(ctx context.Context, trackID string, cache *ArtistGenreCache) (f TrackFeature, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.trackTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errTrackPanic, r)
		}
	}()

	return e.Extract(ctx, trackID, cache)
}
