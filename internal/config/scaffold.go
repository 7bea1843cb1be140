package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = `model: "gemini-2.5-flash"
dataset: "testdata/dataset.json"
output_dir: "reports"
cooldown_ms: 15000
excerpt_limit: 300
`

const sampleDataset = `{
  "orders": [
    { "orderId": 1001, "customerName": "Ada Lovelace", "total": 249.99, "items": ["keyboard", "trackball"] },
    { "orderId": 1002, "customerName": "Grace Hopper", "total": 89.5, "items": ["cable"] },
    { "orderId": 1003, "customerName": "Edsger Dijkstra", "total": 1240.0, "items": ["monitor", "dock", "stand"] }
  ],
  "generatedAt": "2026-08-01T00:00:00Z",
  "currency": "USD"
}
`

// Scaffold writes a starter config file and sample dataset. Existing files
// are never overwritten.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	datasetPath := filepath.Join(filepath.Dir(configPath), Default().Dataset)
	if _, err := os.Stat(datasetPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(datasetPath), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	if err := os.WriteFile(datasetPath, []byte(sampleDataset), 0o644); err != nil {
		return fmt.Errorf("write sample dataset: %w", err)
	}
	return nil
}
