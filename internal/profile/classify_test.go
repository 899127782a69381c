package profile

import (
	"strings"
	"testing"
)

func TestRulesCoverEveryGroup(t *testing.T) {
	for _, g := range Groups() {
		if rules[g] == nil {
			t.Errorf("no rule for %v", g)
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		s    Summary
		want Group
	}{
		{
			name: "chill guy",
			s: Summary{
				Tempo:     Stat{Mean: 0.5},
				Sentiment: Stat{Mean: 0.5},
				Final:     GroupVector{ChillGuy: 0.3},
			},
			want: ChillGuy,
		},
		{
			name: "chill guy sentiment boundary",
			s: Summary{
				Tempo:     Stat{Mean: 0.59},
				Sentiment: Stat{Mean: 0.2},
				Final:     GroupVector{ChillGuy: 0.25},
			},
			want: ChillGuy,
		},
		{
			name: "tempo at 0.6 is not chill",
			s: Summary{
				Tempo:     Stat{Mean: 0.6},
				Sentiment: Stat{Mean: 0.5},
				Final:     GroupVector{ChillGuy: 0.3},
				Predicted: SoundExplorer,
			},
			want: SoundExplorer,
		},
		{
			name: "gourmet",
			s: Summary{
				Popularity:     Stat{Mean: 0.3},
				Tempo:          Stat{Mean: 0.7},
				GenreDiversity: 0.5,
				Final:          GroupVector{Gourmet: 0.5},
			},
			want: Gourmet,
		},
		{
			name: "bgm master",
			s: Summary{
				Popularity: Stat{Mean: 0.6},
				Duration:   Stat{Mean: 0.5},
				Tempo:      Stat{Mean: 0.5},
				Sentiment:  Stat{Mean: 0.1},
				Final:      GroupVector{BGMMaster: 0.5, ChillGuy: 0.9},
			},
			want: BGMMaster,
		},
		{
			name: "clubber",
			s: Summary{
				Popularity: Stat{Mean: 0.8},
				Duration:   Stat{Mean: 0.3},
				Tempo:      Stat{Mean: 0.9},
				Explicit:   Stat{Mean: 0.5},
				Final:      GroupVector{Clubber: 0.6},
			},
			want: Clubber,
		},
		{
			name: "sound explorer",
			s: Summary{
				Popularity:     Stat{Mean: 0.3},
				Tempo:          Stat{Mean: 0.7},
				Explicit:       Stat{Mean: 0.3},
				GenreDiversity: 0.1,
				Final:          GroupVector{SoundExplorer: 0.8, Gourmet: 0.9},
			},
			want: SoundExplorer,
		},
		{
			name: "classic guardian",
			s: Summary{
				Popularity:  Stat{Mean: 0.5},
				Duration:    Stat{Mean: 0.7},
				Tempo:       Stat{Mean: 0.3},
				Sentiment:   Stat{Mean: 0.1},
				ReleaseYear: Stat{Mean: 0.2, StdDev: 0.1},
				Final:       GroupVector{ClassicGuardian: 0.8},
			},
			want: ClassicGuardian,
		},
		{
			name: "earlier rule wins",
			s: Summary{
				Popularity:     Stat{Mean: 0.3},
				Tempo:          Stat{Mean: 0.5},
				Sentiment:      Stat{Mean: 0.5},
				GenreDiversity: 0.9,
				Final:          GroupVector{ChillGuy: 0.3, Gourmet: 0.9},
			},
			want: ChillGuy,
		},
		{
			name: "no rule falls back to predicted",
			s: Summary{
				Popularity: Stat{Mean: 0.8},
				Tempo:      Stat{Mean: 0.85},
				Duration:   Stat{Mean: 0.33},
				Sentiment:  Stat{Mean: 0.5},
				Final:      GroupVector{Clubber: 0.56},
				Predicted:  Clubber,
			},
			want: Clubber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.s); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyExplanation(t *testing.T) {
	s := Summary{
		Tracks:      1,
		Popularity:  Stat{Mean: 0.8},
		Duration:    Stat{Mean: 1.0 / 3},
		Tempo:       Stat{Mean: 0.85},
		Sentiment:   Stat{Mean: 0.5},
		ReleaseYear: Stat{Mean: 65.0 / 73},
		Final:       GroupVector{Clubber: 0.56},
		Predicted:   Clubber,
	}

	res := Classify(s)
	if res.Group != Clubber {
		t.Fatalf("Group = %v, want %v", res.Group, Clubber)
	}
	if res.Summary == nil || res.Summary.Tracks != 1 {
		t.Errorf("Summary = %+v", res.Summary)
	}

	for _, want := range []string{
		"Your listening metrics: (",
		"pop: 0.80",
		"dur: 0.33",
		"explicit: 0.00",
		"tempo: 0.85",
		"sentiment: 0.50",
		"release_year_avg: 0.89",
		"release_year_diversity: 0.00",
		"genre_diversity: 0.00",
		"genre groups: {칠 가이: 0.00",
		"decade groups: {",
		"you are classified as '클러버'!",
	} {
		if !strings.Contains(res.Explanation, want) {
			t.Errorf("explanation missing %q:\n%s", want, res.Explanation)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	s := Summary{
		Popularity: Stat{Mean: 0.45},
		Tempo:      Stat{Mean: 0.7},
		Final:      GroupVector{0.2, 0.2, 0.2, 0.2, 0.2, 0.2},
	}
	first := Classify(s)
	for range 10 {
		if got := Classify(s); got.Group != first.Group || got.Explanation != first.Explanation {
			t.Fatalf("Classify() not deterministic: %v vs %v", got.Group, first.Group)
		}
	}
}

func TestUnknownResult(t *testing.T) {
	res := UnknownResult(ExplanationNoTracks)
	if res.Group != Unknown || res.Explanation != "no tracks selected" || res.Summary != nil {
		t.Errorf("UnknownResult() = %+v", res)
	}
}
