package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
)

// genericWeight is the per-group weight given to genres listed without
// explicit weights.
const genericWeight = 0.1

// GenericWeights returns the vector used for definitions without weights.
func GenericWeights() GroupVector {
	var v GroupVector
	for i := range v {
		v[i] = genericWeight
	}
	return v
}

// Definition is one genre entry of a definition source.
// Nil Weights means the generic default; nil Tempo means no tempo contribution.
type Definition struct {
	Name    string
	Weights *GroupVector
	Tempo   *float64
}

// DefinitionSource supplies genre definitions.
type DefinitionSource interface {
	Definitions(ctx context.Context) ([]Definition, error)
}

// ErrUnsupportedFormat is returned for definition files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported definitions format")

// FileSource reads definitions from a JSON or YAML document on disk. The
// document is a list whose entries are either a genre name or an object
// {name, weights, tempo}.
type FileSource struct {
	Path string
}

// Definitions implements DefinitionSource.
func (f FileSource) Definitions(_ context.Context) ([]Definition, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}

	var raw []any
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing definitions: %w", err)
	}

	return ParseDefinitions(raw)
}

// ParseDefinitions converts decoded document entries into definitions.
func ParseDefinitions(entries []any) ([]Definition, error) {
	defs := make([]Definition, 0, len(entries))
	for i, e := range entries {
		switch v := e.(type) {
		case string:
			defs = append(defs, Definition{Name: v})
		case map[string]any:
			def, err := parseDefinitionObject(v)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			defs = append(defs, def)
		default:
			return nil, fmt.Errorf("entry %d: unexpected type %T", i, e)
		}
	}
	return defs, nil
}

func parseDefinitionObject(m map[string]any) (Definition, error) {
	name, ok := m["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return Definition{}, errors.New("missing name")
	}
	def := Definition{Name: name}

	if raw, ok := m["weights"]; ok && raw != nil {
		wm, ok := raw.(map[string]any)
		if !ok {
			return Definition{}, fmt.Errorf("%s: weights must be an object", name)
		}
		var weights GroupVector
		for key, val := range wm {
			g, err := ParseGroup(key)
			if err != nil {
				return Definition{}, fmt.Errorf("%s: %w", name, err)
			}
			w, ok := toFloat(val)
			if !ok {
				return Definition{}, fmt.Errorf("%s: weight for %s is not a number", name, key)
			}
			if w < 0 {
				return Definition{}, fmt.Errorf("%s: weight for %s is negative", name, key)
			}
			weights[g] = w
		}
		def.Weights = &weights
	}

	if raw, ok := m["tempo"]; ok && raw != nil {
		bpm, ok := toFloat(raw)
		if !ok {
			return Definition{}, fmt.Errorf("%s: tempo is not a number", name)
		}
		def.Tempo = &bpm
	}

	return def, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// BuildTables turns definitions into the genre affinity and tempo tables.
// Keys are normalized; later duplicates win.
func BuildTables(defs []Definition) (AffinityTable, TempoTable) {
	genres := make(AffinityTable, len(defs))
	tempos := make(TempoTable)
	for _, d := range defs {
		key := NormalizeGenre(d.Name)
		if key == "" {
			continue
		}
		if d.Weights != nil {
			genres[key] = *d.Weights
		} else {
			genres[key] = GenericWeights()
		}
		if d.Tempo != nil {
			tempos[key] = *d.Tempo
		}
	}
	return genres, tempos
}

// LoadTables reads the definition source once and builds the process-wide
// tables. A missing or malformed source is logged and the built-in genre
// weights are used with an empty tempo table.
func LoadTables(ctx context.Context, src DefinitionSource) *Tables {
	if src == nil {
		logging.Warn().Msg("no genre definition source configured, using built-in genre weights")
		return NewTables(nil, nil)
	}

	defs, err := src.Definitions(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("loading genre definitions failed, using built-in genre weights")
		return NewTables(nil, nil)
	}

	genres, tempos := BuildTables(defs)
	if len(genres) == 0 {
		logging.Warn().Msg("genre definition source is empty, using built-in genre weights")
	}
	logging.Info().
		Int("genres", len(genres)).
		Int("tempos", len(tempos)).
		Msg("loaded genre definitions")
	return NewTables(genres, tempos)
}
