package profile

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/metrics"
)

// ErrClassification marks an unexpected failure inside the pipeline. The
// accompanying Result is still a valid UNKNOWN answer.
var ErrClassification = errors.New("classification failed")

// Service runs the full classification pipeline for a list of track IDs.
type Service struct {
	extractor *Extractor
}

// NewService creates a Service around an Extractor.
func NewService(extractor *Extractor) *Service {
	return &Service{extractor: extractor}
}

// Classify extracts, aggregates and classifies the given tracks.
//
// Empty input and tracks that all fail both produce an UNKNOWN result with a
// nil error. Anything unexpected, including a panic, is logged here and
// returned as an UNKNOWN result together with an error wrapping
// ErrClassification.
func (s *Service) Classify(ctx context.Context, trackIDs []string) (res Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Strs("track_ids", trackIDs).
				Msg("classification panicked")
			res = UnknownResult(ExplanationFailed)
			err = fmt.Errorf("%w: panic: %v", ErrClassification, r)
		}
		metrics.ClassificationsTotal.WithLabelValues(res.Group.Slug()).Inc()
		metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	}()

	if len(trackIDs) == 0 {
		return UnknownResult(ExplanationNoTracks), nil
	}

	features := s.extractor.ExtractAll(ctx, trackIDs)
	if len(features) == 0 {
		logging.Ctx(ctx).Warn().Strs("track_ids", trackIDs).Msg("no track metadata could be extracted")
		return UnknownResult(ExplanationNoMetadata), nil
	}

	summary, err := Aggregate(features)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Strs("track_ids", trackIDs).Msg("aggregating features failed")
		return UnknownResult(ExplanationFailed), fmt.Errorf("%w: %w", ErrClassification, err)
	}

	res = Classify(summary)
	logging.Ctx(ctx).Info().
		Int("requested", len(trackIDs)).
		Int("valid", summary.Tracks).
		Str("group", res.Group.Slug()).
		Str("predicted", summary.Predicted.Slug()).
		Msg("classified listener profile")
	return res, nil
}
