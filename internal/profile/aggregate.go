package profile

import (
	"errors"
	"math"
)

// Normalization reference ranges.
const (
	durationFloorMs = 60000.0  // 1 minute
	durationSpanMs  = 360000.0 // 1 to 7 minutes
	yearFloor       = 1950.0
	yearCeil        = 2023.0

	// maxGenreSpread is the genre-signal standard deviation treated as full diversity.
	maxGenreSpread = 0.5

	// neutralSpread stands in for diversity measures that have no samples.
	neutralSpread = 0.5
)

// Blend of genre and era affinities in the final group scores.
const (
	genreBlend = 0.6
	// gourmetDiversityBonus scales genre diversity into the Gourmet score.
	// The bonus is not renormalized against the other groups.
	gourmetDiversityBonus = 1.0

	// gourmetMinDiversity is the genre diversity Gourmet needs to stay the
	// predicted group.
	gourmetMinDiversity = 0.4
)

// ErrNoTracks is returned when there is nothing to aggregate.
var ErrNoTracks = errors.New("no tracks to aggregate")

// Stat is the mean and population standard deviation of a normalized series.
type Stat struct {
	Mean   float64
	StdDev float64
}

// Summary holds aggregate statistics over one request's valid tracks.
type Summary struct {
	Tracks int

	Popularity  Stat // popularity / 100
	Duration    Stat // clip((ms-60000)/360000, 0, 1)
	Explicit    Stat // fraction of explicit tracks
	Tempo       Stat // tempo estimate, unclamped
	Sentiment   Stat // (sentiment+1)/2
	ReleaseYear Stat // (year-1950)/(2023-1950); StdDev is the release-year diversity

	GenreDiversity float64

	AvgGenre  GroupVector
	AvgDecade GroupVector
	Final     GroupVector
	Predicted Group
}

// Aggregate combines per-track features into a Summary.
func Aggregate(features []TrackFeature) (Summary, error) {
	n := len(features)
	if n == 0 {
		return Summary{}, ErrNoTracks
	}

	pop := make([]float64, n)
	dur := make([]float64, n)
	explicit := make([]float64, n)
	tempo := make([]float64, n)
	sentiment := make([]float64, n)
	years := make([]float64, 0, n)
	var genreSignals []float64

	var genreTotal, decadeTotal GroupVector
	for i, f := range features {
		pop[i] = float64(f.Popularity) / 100
		dur[i] = clip((float64(f.DurationMs)-durationFloorMs)/durationSpanMs, 0, 1)
		if f.Explicit {
			explicit[i] = 1
		}
		tempo[i] = f.Tempo
		sentiment[i] = (f.Sentiment + 1) / 2
		years = append(years, (float64(f.ReleaseYear)-yearFloor)/(yearCeil-yearFloor))
		if f.HasArtist {
			genreSignals = append(genreSignals, f.Genre.Mean())
		}

		genreTotal = genreTotal.Add(f.Genre)
		decadeTotal = decadeTotal.Add(f.Decade)
	}

	s := Summary{
		Tracks:     n,
		Popularity: newStat(pop),
		Duration:   newStat(dur),
		Explicit:   newStat(explicit),
		Tempo:      newStat(tempo),
		Sentiment:  newStat(sentiment),
		AvgGenre:   genreTotal.Scale(1 / float64(n)),
		AvgDecade:  decadeTotal.Scale(1 / float64(n)),
	}

	if len(years) > 0 {
		s.ReleaseYear = newStat(years)
	} else {
		s.ReleaseYear = Stat{Mean: neutralSpread, StdDev: neutralSpread}
	}

	if len(genreSignals) > 0 {
		s.GenreDiversity = clip(stdDev(genreSignals)/maxGenreSpread, 0, 1)
	} else {
		s.GenreDiversity = neutralSpread
	}

	s.Final = s.AvgGenre.Scale(genreBlend).Add(s.AvgDecade.Scale(1 - genreBlend))
	s.Final[Gourmet] += gourmetDiversityBonus * s.GenreDiversity

	s.Predicted = s.Final.Max()
	if s.Predicted == Gourmet && s.GenreDiversity < gourmetMinDiversity {
		s.Predicted = s.Final.Max(Gourmet)
	}

	return s, nil
}

func newStat(xs []float64) Stat {
	return Stat{Mean: mean(xs), StdDev: stdDev(xs)}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation.
func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
