// Package benchmarks manages per-vertical baseline data: typical dimension
// scores and the average competitor content age used by the freshness
// comparison. Baselines live as JSON files under a data dir with compiled-in
// defaults when no file exists.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Baseline holds reference values for one content vertical.
type Baseline struct {
	Vertical          string             `json:"vertical"`
	CompetitorAgeDays float64            `json:"competitor_age_days"`
	TypicalScores     map[string]float64 `json:"typical_scores"`
}

// Store loads and saves baselines by vertical.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Load returns the baseline for a vertical, falling back to the compiled-in
// default when no file exists for it.
func (s *Store) Load(vertical string) (*Baseline, error) {
	path := filepath.Join(s.dataDir, fmt.Sprintf("%s.json", vertical))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s.Default(vertical), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline file: %w", err)
	}
	defer file.Close()

	var baseline Baseline
	if err := json.NewDecoder(file).Decode(&baseline); err != nil {
		return nil, fmt.Errorf("failed to decode baseline: %w", err)
	}

	return &baseline, nil
}

// Save persists a baseline for a vertical.
func (s *Store) Save(baseline *Baseline) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	path := filepath.Join(s.dataDir, fmt.Sprintf("%s.json", baseline.Vertical))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create baseline file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(baseline); err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	return nil
}

// Default returns the generic cross-vertical baseline.
func (s *Store) Default(vertical string) *Baseline {
	return &Baseline{
		Vertical:          vertical,
		CompetitorAgeDays: 45, // median refresh cycle observed across verticals
		TypicalScores: map[string]float64{
			"entity":     0.55,
			"citation":   0.50,
			"structure":  0.60,
			"eeat":       0.50,
			"visibility": 0.35,
		},
	}
}
