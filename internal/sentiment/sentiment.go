// Package sentiment scores the emotional polarity of song lyrics.
package sentiment

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/lyrics"
	"github.com/justestif/go-spotify-taste-profile/internal/metrics"
	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

// LyricsFinder looks up the lyrics of a song.
type LyricsFinder interface {
	FindLyrics(ctx context.Context, title, artist string) (string, error)
}

// Analyzer returns the compound polarity of a text in [-1, 1].
type Analyzer interface {
	Compound(text string) float64
}

// VADER is an Analyzer backed by the VADER lexicon.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER loads the VADER lexicon.
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound implements Analyzer.
func (v *VADER) Compound(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// Scorer implements profile.SentimentScorer on top of a lyrics source.
type Scorer struct {
	finder   LyricsFinder
	analyzer Analyzer
}

var _ profile.SentimentScorer = (*Scorer)(nil)

// NewScorer creates a Scorer. A nil finder disables lyric lookups and every
// track scores 0; a nil analyzer defaults to VADER.
func NewScorer(finder LyricsFinder, analyzer Analyzer) *Scorer {
	if analyzer == nil {
		analyzer = NewVADER()
	}
	return &Scorer{finder: finder, analyzer: analyzer}
}

// Score returns the compound polarity of a track's lyrics. Any failure to
// obtain or analyze the lyrics yields 0.
func (s *Scorer) Score(ctx context.Context, title, artist string) (score float64) {
	if s.finder == nil {
		metrics.LyricsLookups.WithLabelValues("disabled").Inc()
		return 0
	}

	log := logging.Ctx(ctx).With().Str("title", title).Str("artist", artist).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("sentiment scoring panicked")
			metrics.LyricsLookups.WithLabelValues("error").Inc()
			score = 0
		}
	}()

	text, err := s.finder.FindLyrics(ctx, title, artist)
	switch {
	case errors.Is(err, lyrics.ErrNotFound):
		log.Debug().Msg("no lyrics found")
		metrics.LyricsLookups.WithLabelValues("not_found").Inc()
		return 0
	case err != nil:
		log.Warn().Err(err).Msg("lyrics lookup failed")
		metrics.LyricsLookups.WithLabelValues("error").Inc()
		return 0
	case strings.TrimSpace(text) == "":
		metrics.LyricsLookups.WithLabelValues("not_found").Inc()
		return 0
	}

	metrics.LyricsLookups.WithLabelValues("found").Inc()
	return clamp(s.analyzer.Compound(text))
}

func clamp(x float64) float64 {
	switch {
	case x < -1:
		return -1
	case x > 1:
		return 1
	default:
		return x
	}
}
