package profile

import (
	"fmt"
)

// Result is the outcome of a classification request.
type Result struct {
	Group       Group
	Explanation string
	// Summary is nil for UNKNOWN outcomes.
	Summary *Summary
}

// Explanations for outcomes that carry no statistics.
const (
	ExplanationNoTracks    = "no tracks selected"
	ExplanationNoMetadata  = "metadata unavailable"
	ExplanationFailed      = "classification failed"
	explanationFormat      = "Your listening metrics: %s\nBased on these metrics, you are classified as '%s'!"
	explanationStatsFormat = "(pop: %.2f, dur: %.2f, explicit: %.2f, tempo: %.2f, sentiment: %.2f, " +
		"release_year_avg: %.2f, release_year_diversity: %.2f, genre_diversity: %.2f, " +
		"genre groups: %s, decade groups: %s)"
)

// rule reports whether a summary qualifies for its group.
type rule func(s Summary) bool

// rules holds one tuned threshold rule per group. They are evaluated in
// canonical group order and the first match wins.
var rules = [groupCount]rule{
	ChillGuy: func(s Summary) bool {
		return s.Tempo.Mean < 0.6 &&
			s.Sentiment.Mean >= 0.2 &&
			s.Final[ChillGuy] >= 0.25
	},
	Gourmet: func(s Summary) bool {
		return s.Popularity.Mean < 0.4 &&
			s.Final[Gourmet] >= 0.3 &&
			s.GenreDiversity >= 0.4
	},
	BGMMaster: func(s Summary) bool {
		return between(s.Popularity.Mean, 0.5, 0.7) &&
			between(s.Duration.Mean, 0.4, 0.6) &&
			between(s.Tempo.Mean, 0.45, 0.55) &&
			s.Explicit.Mean < 0.1 &&
			s.Final[BGMMaster] >= 0.4
	},
	Clubber: func(s Summary) bool {
		return s.Popularity.Mean >= 0.7 &&
			s.Duration.Mean < 0.4 &&
			s.Tempo.Mean >= 0.8 &&
			s.Explicit.Mean >= 0.3 &&
			s.Final[Clubber] >= 0.5
	},
	SoundExplorer: func(s Summary) bool {
		return s.Popularity.Mean < 0.4 &&
			s.Tempo.Mean >= 0.6 &&
			between(s.Explicit.Mean, 0.2, 0.4) &&
			s.Final[SoundExplorer] >= 0.7
	},
	ClassicGuardian: func(s Summary) bool {
		return between(s.Popularity.Mean, 0.4, 0.6) &&
			s.Duration.Mean >= 0.6 &&
			s.Tempo.Mean < 0.4 &&
			s.Explicit.Mean < 0.1 &&
			s.ReleaseYear.Mean < 0.3 &&
			s.ReleaseYear.StdDev < 0.2 &&
			s.Final[ClassicGuardian] >= 0.7
	},
}

func between(x, lo, hi float64) bool {
	return x >= lo && x <= hi
}

// Decide applies the rule table to a summary and falls back to the
// predicted group when no rule matches.
func Decide(s Summary) Group {
	for _, g := range Groups() {
		if rules[g](s) {
			return g
		}
	}
	return s.Predicted
}

// Classify decides the group for a summary and builds its explanation.
func Classify(s Summary) Result {
	g := Decide(s)
	return Result{
		Group:       g,
		Explanation: fmt.Sprintf(explanationFormat, FormatStats(s), g),
		Summary:     &s,
	}
}

// FormatStats renders every summary statistic with two decimals.
func FormatStats(s Summary) string {
	return fmt.Sprintf(explanationStatsFormat,
		s.Popularity.Mean,
		s.Duration.Mean,
		s.Explicit.Mean,
		s.Tempo.Mean,
		s.Sentiment.Mean,
		s.ReleaseYear.Mean,
		s.ReleaseYear.StdDev,
		s.GenreDiversity,
		s.AvgGenre,
		s.AvgDecade,
	)
}

// UnknownResult builds an UNKNOWN result with the given explanation.
func UnknownResult(explanation string) Result {
	return Result{Group: Unknown, Explanation: explanation}
}
