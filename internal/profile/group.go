// Package profile implements the listener-profile classifier: affinity tables,
// per-track feature extraction, aggregation and the rule-based decision.
package profile

import (
	"fmt"
	"slices"
	"strings"
)

// Group is one of the six listener-profile archetypes, or Unknown.
type Group int

// Canonical group order. The classifier evaluates its rules in this order and
// breaks score ties in favor of the earlier group.
const (
	ChillGuy Group = iota
	Gourmet
	BGMMaster
	Clubber
	SoundExplorer
	ClassicGuardian
	Unknown
)

// groupCount is the number of real groups (Unknown excluded).
const groupCount = int(Unknown)

// Adding or removing a group breaks the build here; the rule table in
// classify.go has to be revisited when that happens.
var _ = [1]struct{}{}[groupCount-6]

var groupLabels = [...]string{
	ChillGuy:        "칠 가이",
	Gourmet:         "미식가",
	BGMMaster:       "BGM 마스터",
	Clubber:         "클러버",
	SoundExplorer:   "사운드 실험가",
	ClassicGuardian: "클래식 수호자",
	Unknown:         "UNKNOWN",
}

var groupSlugs = [...]string{
	ChillGuy:        "chill_guy",
	Gourmet:         "gourmet",
	BGMMaster:       "bgm_master",
	Clubber:         "clubber",
	SoundExplorer:   "sound_explorer",
	ClassicGuardian: "classic_guardian",
	Unknown:         "unknown",
}

// Groups returns the six real groups in canonical order.
func Groups() []Group {
	gs := make([]Group, groupCount)
	for i := range gs {
		gs[i] = Group(i)
	}
	return gs
}

// Valid reports whether g is one of the six real groups.
func (g Group) Valid() bool {
	return g >= 0 && int(g) < groupCount
}

// String returns the display label shown to end users.
func (g Group) String() string {
	if g.Valid() || g == Unknown {
		return groupLabels[g]
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// Slug returns an ASCII identifier for g, used in metrics, image paths and
// definition documents.
func (g Group) Slug() string {
	if g.Valid() || g == Unknown {
		return groupSlugs[g]
	}
	return "unknown"
}

// MarshalText encodes g as its display label.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a label or slug, including UNKNOWN.
func (g *Group) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == groupLabels[Unknown] || strings.EqualFold(s, groupSlugs[Unknown]) {
		*g = Unknown
		return nil
	}
	parsed, err := ParseGroup(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGroup resolves a display label or slug to a Group.
// Matching on slugs is case-insensitive.
func ParseGroup(s string) (Group, error) {
	s = strings.TrimSpace(s)
	for _, g := range Groups() {
		if s == groupLabels[g] || strings.EqualFold(s, groupSlugs[g]) {
			return g, nil
		}
	}
	return Unknown, fmt.Errorf("unknown group %q", s)
}

// GroupVector holds one non-negative weight per group, indexed by Group.
// The fixed size guarantees every group is always present.
type GroupVector [groupCount]float64

// Get returns the weight for g, or 0 for Unknown.
func (v GroupVector) Get(g Group) float64 {
	if !g.Valid() {
		return 0
	}
	return v[g]
}

// Add returns the element-wise sum of v and o.
func (v GroupVector) Add(o GroupVector) GroupVector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Scale returns v with every weight multiplied by f.
func (v GroupVector) Scale(f float64) GroupVector {
	for i := range v {
		v[i] *= f
	}
	return v
}

// Mean returns the average weight across the six groups.
func (v GroupVector) Mean() float64 {
	var sum float64
	for _, w := range v {
		sum += w
	}
	return sum / float64(len(v))
}

// Max returns the group with the highest weight, skipping any group in
// exclude. Ties go to the earlier group in canonical order.
func (v GroupVector) Max(exclude ...Group) Group {
	best := Unknown
	for _, g := range Groups() {
		if slices.Contains(exclude, g) {
			continue
		}
		if best == Unknown || v[g] > v[best] {
			best = g
		}
	}
	return best
}

// String renders the vector as {label: 0.00, ...} in canonical order.
func (v GroupVector) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, g := range Groups() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %.2f", g, v[g])
	}
	sb.WriteByte('}')
	return sb.String()
}

// GroupScore pairs a group with its weight. Group encodes as its label.
type GroupScore struct {
	Group Group   `json:"group"`
	Score float64 `json:"score"`
}

// Scores lists the vector in canonical group order.
func (v GroupVector) Scores() []GroupScore {
	out := make([]GroupScore, groupCount)
	for _, g := range Groups() {
		out[g] = GroupScore{Group: g, Score: v[g]}
	}
	return out
}
