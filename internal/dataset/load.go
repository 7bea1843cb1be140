// Package dataset reads the JSON dataset a benchmark run serializes into
// each format variant.
package dataset

import (
	"fmt"
	"os"

	"toonbench/internal/jsonval"
)

// Load reads one JSON document from disk, preserving object key order for
// the renderers.
func Load(path string) (jsonval.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonval.Value{}, fmt.Errorf("read dataset: %w", err)
	}
	value, err := jsonval.Parse(data)
	if err != nil {
		return jsonval.Value{}, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return value, nil
}
