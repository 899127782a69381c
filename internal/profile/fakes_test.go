package profile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errNotFound = errors.New("not found")

// fakeCatalog implements Catalog for testing.
type fakeCatalog struct {
	mu      sync.Mutex
	tracks  map[string]CatalogTrack
	artists map[string][]string
	// panics lists track IDs whose lookup panics.
	panics map[string]bool

	trackCalls  atomic.Int32
	artistCalls atomic.Int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks:  make(map[string]CatalogTrack),
		artists: make(map[string][]string),
		panics:  make(map[string]bool),
	}
}

func (c *fakeCatalog) addTrack(t CatalogTrack) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks[t.ID] = t
}

func (c *fakeCatalog) addArtist(id string, genres ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artists[id] = genres
}

func (c *fakeCatalog) Track(_ context.Context, id string) (CatalogTrack, error) {
	c.trackCalls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panics[id] {
		panic("boom: " + id)
	}
	t, ok := c.tracks[id]
	if !ok {
		return CatalogTrack{}, errNotFound
	}
	return t, nil
}

func (c *fakeCatalog) ArtistGenres(_ context.Context, id string) ([]string, error) {
	c.artistCalls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.artists[id]
	if !ok {
		return nil, errNotFound
	}
	return g, nil
}

// fakeSentiment returns a fixed score per title, 0 otherwise.
type fakeSentiment struct {
	scores map[string]float64
	calls  atomic.Int32
}

func (s *fakeSentiment) Score(_ context.Context, title, _ string) float64 {
	s.calls.Add(1)
	return s.scores[title]
}

func testTables() *Tables {
	genres, tempos := BuildTables([]Definition{
		{Name: "EDM", Weights: &GroupVector{Clubber: 0.8, SoundExplorer: 0.3, BGMMaster: 0.2}, Tempo: ptr(128.0)},
		{Name: "ambient", Weights: &GroupVector{ChillGuy: 0.8, BGMMaster: 0.5}, Tempo: ptr(80.0)},
		{Name: "jazz", Weights: &GroupVector{Gourmet: 0.7, ChillGuy: 0.3, BGMMaster: 0.3}},
	})
	return NewTables(genres, tempos)
}

func ptr[T any](v T) *T {
	return &v
}
