package db

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

// DefinitionRepository handles genre definition database operations.
type DefinitionRepository struct {
	pool *pgxpool.Pool
}

var _ profile.DefinitionSource = (*DefinitionRepository)(nil)

// Definitions loads every genre definition, ordered by name.
func (r *DefinitionRepository) Definitions(ctx context.Context) ([]profile.Definition, error) {
	query := `
		SELECT name, weights, tempo
		FROM genre_definitions
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying genre definitions: %w", err)
	}
	defer rows.Close()

	var defs []profile.Definition
	for rows.Next() {
		var (
			name    string
			weights []byte
			tempo   *float64
		)
		if err := rows.Scan(&name, &weights, &tempo); err != nil {
			return nil, fmt.Errorf("scanning genre definition: %w", err)
		}
		w, err := decodeWeights(weights)
		if err != nil {
			return nil, fmt.Errorf("genre %q: %w", name, err)
		}
		defs = append(defs, profile.Definition{Name: name, Weights: w, Tempo: tempo})
	}
	return defs, rows.Err()
}

// Upsert inserts or replaces definitions in a single batch.
func (r *DefinitionRepository) Upsert(ctx context.Context, defs []profile.Definition) error {
	if len(defs) == 0 {
		return nil
	}

	query := `
		INSERT INTO genre_definitions (name, weights, tempo, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE SET
			weights = EXCLUDED.weights,
			tempo = EXCLUDED.tempo,
			updated_at = now()
	`

	batch := &pgx.Batch{}
	for _, d := range defs {
		name := profile.NormalizeGenre(d.Name)
		if name == "" {
			continue
		}
		weights, err := encodeWeights(d.Weights)
		if err != nil {
			return fmt.Errorf("genre %q: %w", d.Name, err)
		}
		batch.Queue(query, name, weights, d.Tempo)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting genre definitions: %w", err)
	}
	return nil
}

// encodeWeights renders weights as a JSON object keyed by group slug.
// Nil weights encode as SQL NULL.
func encodeWeights(w *profile.GroupVector) ([]byte, error) {
	if w == nil {
		return nil, nil
	}
	m := make(map[string]float64, len(w))
	for _, g := range profile.Groups() {
		m[g.Slug()] = w[g]
	}
	return json.Marshal(m)
}

// decodeWeights parses a JSON weights object. Keys may be group slugs or labels.
func decodeWeights(data []byte) (*profile.GroupVector, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing weights: %w", err)
	}
	var w profile.GroupVector
	for key, val := range m {
		g, err := profile.ParseGroup(key)
		if err != nil {
			return nil, err
		}
		if val < 0 {
			return nil, fmt.Errorf("negative weight for %s", key)
		}
		w[g] = val
	}
	return &w, nil
}
