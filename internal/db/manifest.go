// Package db records generation runs in a JSON manifest alongside the
// structures they produced, so a growing training database keeps its
// provenance: which trajectory, which seed, which ID range.
package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const manifestName = "manifest.json"

// Entry describes one generation run.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	VaspFile     string    `json:"vasp_file"`
	Seed         int64     `json:"seed"`
	MaxStrain    float64   `json:"max_strain"`
	MaxAmplitude float64   `json:"max_amplitude"`
	StepSize     int       `json:"step_size"`
	NumRattle    int       `json:"number_of_rattling"`
	FirstID      int       `json:"first_structure_id"`
	LastID       int       `json:"last_structure_id"`
	Structures   int       `json:"structures"`
}

type manifest struct {
	Runs []Entry `json:"runs"`
}

// NewRunID builds a manifest key from the run's timestamp.
func NewRunID(ts time.Time) string {
	return fmt.Sprintf("run_%d", ts.Unix())
}

// Record appends an entry to the manifest in dir, creating the file on
// first use.
func Record(dir string, e Entry) error {
	path := filepath.Join(dir, manifestName)

	var m manifest
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("db: corrupt manifest %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("db: read manifest %s: %w", path, err)
	}

	m.Runs = append(m.Runs, e)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("db: write manifest %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// List returns every recorded run in dir, oldest first. A directory
// without a manifest is an empty database, not an error.
func List(dir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("db: read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("db: corrupt manifest: %w", err)
	}

	sort.Slice(m.Runs, func(i, j int) bool {
		return m.Runs[i].Timestamp.Before(m.Runs[j].Timestamp)
	})
	return m.Runs, nil
}
