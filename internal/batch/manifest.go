package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one input file in the output manifest.
type ManifestEntry struct {
	Name            string            `json:"name"`
	Input           string            `json:"input"`
	Image           string            `json:"image,omitempty"`
	Error           string            `json:"error,omitempty"`
	Layers          int               `json:"layers"`
	TotalCommands   int               `json:"total_commands"`
	EstimatedHeight float64           `json:"estimated_height"`
	Bounds          *ManifestBounds   `json:"bounds"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ManifestBounds is an axis-aligned box; absent for files without motion.
type ManifestBounds struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// NewManifest converts batch results into manifest entries.
func NewManifest(results []Result) []ManifestEntry {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Name:  r.Job.Name,
			Input: r.Job.Path,
			Image: r.Image,
			Error: r.Error,
		}
		if d := r.Details; d != nil {
			e.Layers = d.LayerCount
			e.TotalCommands = d.TotalCommands
			e.EstimatedHeight = d.EstimatedHeight
			e.Metadata = d.Metadata
			if !d.Bounds.IsEmpty() {
				e.Bounds = &ManifestBounds{Min: d.Bounds.Min, Max: d.Bounds.Max}
			}
		}
		entries[i] = e
	}
	return entries
}

// WriteManifest writes the manifest for results as indented JSON.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
