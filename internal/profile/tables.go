package profile

import (
	"fmt"
	"strings"
)

// Tempo reference range in beats per minute, mapped linearly onto [0, 1].
const (
	tempoMinBPM = 60.0
	tempoMaxBPM = 140.0

	// neutralTempo is returned when none of an artist's genres has a tempo entry.
	neutralTempo = 0.5
)

// fallbackDecade is used for release years outside the known buckets.
const fallbackDecade = "2000s"

// AffinityTable maps a normalized category key (genre or decade bucket) to its
// per-group weights. It is never mutated after construction.
type AffinityTable map[string]GroupVector

// TempoTable maps a normalized genre to its expected tempo in BPM.
type TempoTable map[string]float64

// Tables bundles the three static lookup tables shared by every request.
type Tables struct {
	Genres  AffinityTable
	Tempos  TempoTable
	Decades AffinityTable
}

// NewTables builds the process-wide tables. An empty genre table is replaced
// with the built-in default; an empty tempo table is kept as is.
func NewTables(genres AffinityTable, tempos TempoTable) *Tables {
	if len(genres) == 0 {
		genres = DefaultGenreTable()
	}
	if tempos == nil {
		tempos = TempoTable{}
	}
	return &Tables{
		Genres:  genres,
		Tempos:  tempos,
		Decades: DecadeTable(),
	}
}

// NormalizeGenre trims and lower-cases a genre key.
func NormalizeGenre(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// NormalizeGenres normalizes every genre in the list.
func NormalizeGenres(genres []string) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = NormalizeGenre(g)
	}
	return out
}

// Score returns the tempo estimate for an artist's genres: the mean expected
// BPM of the genres found in the table, rescaled from 60-140 BPM to [0, 1]
// without clamping. Returns 0.5 when no genre has a tempo entry.
func (t TempoTable) Score(genres []string) float64 {
	var sum float64
	var hits int
	for _, g := range genres {
		bpm, ok := t[g]
		if !ok {
			continue
		}
		sum += bpm
		hits++
	}
	if hits == 0 {
		return neutralTempo
	}
	avg := sum / float64(hits)
	return (avg - tempoMinBPM) / (tempoMaxBPM - tempoMinBPM)
}

// GroupScores averages the weight vectors of the genres present in the table.
// An artist with no matching genre gets the all-zero vector, not a neutral one.
func (a AffinityTable) GroupScores(genres []string) GroupVector {
	var total GroupVector
	var matches int
	for _, g := range genres {
		w, ok := a[g]
		if !ok {
			continue
		}
		total = total.Add(w)
		matches++
	}
	if matches == 0 {
		return GroupVector{}
	}
	return total.Scale(1 / float64(matches))
}

// DecadeBucket returns the "<decade>0s" bucket name for a year, e.g. "1990s".
func DecadeBucket(year int) string {
	return fmt.Sprintf("%ds", (year/10)*10)
}

// DecadeWeights returns the era weights for a release year, substituting the
// 2000s bucket when the year falls outside the known decades.
func (t *Tables) DecadeWeights(year int) GroupVector {
	if w, ok := t.Decades[DecadeBucket(year)]; ok {
		return w
	}
	return t.Decades[fallbackDecade]
}

// vec builds a GroupVector from sparse weights.
func vec(weights map[Group]float64) GroupVector {
	var v GroupVector
	for g, w := range weights {
		v[g] = w
	}
	return v
}

// DefaultGenreTable returns the built-in genre weights used when no
// definition source could be loaded.
func DefaultGenreTable() AffinityTable {
	return AffinityTable{
		"indie":        vec(map[Group]float64{ChillGuy: 0.3, Gourmet: 0.7, BGMMaster: 0.4}),
		"indie pop":    vec(map[Group]float64{ChillGuy: 0.4, Gourmet: 0.6, BGMMaster: 0.4}),
		"alternative":  vec(map[Group]float64{Gourmet: 0.4, BGMMaster: 0.6, Clubber: 0.2}),
		"experimental": vec(map[Group]float64{SoundExplorer: 0.9, Gourmet: 0.1, ChillGuy: 0.1}),
		"lo-fi":        vec(map[Group]float64{ChillGuy: 0.8, BGMMaster: 0.4, Gourmet: 0.2}),
		"ambient":      vec(map[Group]float64{ChillGuy: 0.8, BGMMaster: 0.5}),
		"pop":          vec(map[Group]float64{BGMMaster: 0.5, Clubber: 0.3, Gourmet: 0.2}),
		"hip hop":      vec(map[Group]float64{Clubber: 0.7, SoundExplorer: 0.2}),
		"rap":          vec(map[Group]float64{Clubber: 0.7, SoundExplorer: 0.2}),
		"rock":         vec(map[Group]float64{Clubber: 0.6, Gourmet: 0.3, BGMMaster: 0.2}),
		"alt rock":     vec(map[Group]float64{Clubber: 0.65, Gourmet: 0.25, BGMMaster: 0.15}),
		"classical":    vec(map[Group]float64{ClassicGuardian: 0.9, ChillGuy: 0.3}),
		"jazz":         vec(map[Group]float64{Gourmet: 0.7, ChillGuy: 0.3, BGMMaster: 0.3}),
		"electronic":   vec(map[Group]float64{Clubber: 0.6, SoundExplorer: 0.4, BGMMaster: 0.2}),
		"edm":          vec(map[Group]float64{Clubber: 0.8, SoundExplorer: 0.3, BGMMaster: 0.2}),
		"country":      vec(map[Group]float64{ClassicGuardian: 0.6, ChillGuy: 0.3, Gourmet: 0.2}),
	}
}

// DecadeTable returns the era weights for the seven known decade buckets.
func DecadeTable() AffinityTable {
	late := GroupVector{ChillGuy: 0.3, Gourmet: 0.2, BGMMaster: 0.1, Clubber: 0.2, SoundExplorer: 0.1, ClassicGuardian: 0.1}
	return AffinityTable{
		"1960s": {ChillGuy: 0.2, Gourmet: 0.3, BGMMaster: 0.1, Clubber: 0.1, SoundExplorer: 0.1, ClassicGuardian: 0.2},
		"1970s": {ChillGuy: 0.2, Gourmet: 0.3, BGMMaster: 0.1, Clubber: 0.1, SoundExplorer: 0.1, ClassicGuardian: 0.2},
		"1980s": {ChillGuy: 0.25, Gourmet: 0.25, BGMMaster: 0.15, Clubber: 0.15, SoundExplorer: 0.1, ClassicGuardian: 0.1},
		"1990s": {ChillGuy: 0.3, Gourmet: 0.2, BGMMaster: 0.2, Clubber: 0.1, SoundExplorer: 0.1, ClassicGuardian: 0.1},
		"2000s": late,
		"2010s": late,
		"2020s": late,
	}
}
