package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Thresholds.PairInteractions != 5 {
		t.Errorf("Expected pair threshold 5, got %d", cfg.Thresholds.PairInteractions)
	}
	if cfg.Thresholds.HubDegree != 10 {
		t.Errorf("Expected hub degree 10, got %d", cfg.Thresholds.HubDegree)
	}
	if cfg.Thresholds.SharedOfficials != 2 {
		t.Errorf("Expected shared officials 2, got %d", cfg.Thresholds.SharedOfficials)
	}
	if cfg.Thresholds.MinClusterSize != 3 {
		t.Errorf("Expected min cluster size 3, got %d", cfg.Thresholds.MinClusterSize)
	}
	if cfg.Thresholds.MinCycleLength != 3 {
		t.Errorf("Expected min cycle length 3, got %d", cfg.Thresholds.MinCycleLength)
	}
	if cfg.PageRank.Damping != 0.85 {
		t.Errorf("Expected damping 0.85, got %f", cfg.PageRank.Damping)
	}
	if cfg.PageRank.MaxIterations != 100 {
		t.Errorf("Expected 100 max iterations, got %d", cfg.PageRank.MaxIterations)
	}
	if cfg.PageRank.Tolerance != 1e-6 {
		t.Errorf("Expected tolerance 1e-6, got %g", cfg.PageRank.Tolerance)
	}
	if cfg.Workers != 0 {
		t.Errorf("Expected 0 workers (GOMAXPROCS), got %d", cfg.Workers)
	}
	if cfg.Export.Dir != "output" {
		t.Errorf("Expected export dir 'output', got %q", cfg.Export.Dir)
	}
	if cfg.Export.Bundle {
		t.Error("Expected bundle export off by default")
	}
	if cfg.Export.TopN != 10 {
		t.Errorf("Expected top_n 10, got %d", cfg.Export.TopN)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Expected no database URL by default, got %q", cfg.Database.URL)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("Expected log level INFO, got %q", cfg.LogLevel)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path failed: %v", err)
	}

	def := Default()
	if cfg.Thresholds != def.Thresholds {
		t.Errorf("Expected default thresholds, got %+v", cfg.Thresholds)
	}
	if cfg.PageRank != def.PageRank {
		t.Errorf("Expected default pagerank settings, got %+v", cfg.PageRank)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
thresholds:
  pair_interactions: 3
  hub_degree: 7
pagerank:
  damping: 0.9
workers: 4
export:
  dir: results
  bundle: true
  top_n: 25
database:
  url: postgres://localhost:5432/graftnet
log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Thresholds.PairInteractions != 3 {
		t.Errorf("Expected pair threshold 3, got %d", cfg.Thresholds.PairInteractions)
	}
	if cfg.Thresholds.HubDegree != 7 {
		t.Errorf("Expected hub degree 7, got %d", cfg.Thresholds.HubDegree)
	}
	if cfg.PageRank.Damping != 0.9 {
		t.Errorf("Expected damping 0.9, got %f", cfg.PageRank.Damping)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Export.Dir != "results" {
		t.Errorf("Expected export dir 'results', got %q", cfg.Export.Dir)
	}
	if !cfg.Export.Bundle {
		t.Error("Expected bundle export enabled")
	}
	if cfg.Export.TopN != 25 {
		t.Errorf("Expected top_n 25, got %d", cfg.Export.TopN)
	}
	if cfg.Database.URL != "postgres://localhost:5432/graftnet" {
		t.Errorf("Unexpected database URL %q", cfg.Database.URL)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("Expected log level normalized to DEBUG, got %q", cfg.LogLevel)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	content := `
thresholds:
  pair_interactions: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Thresholds.PairInteractions != 2 {
		t.Errorf("Expected pair threshold 2, got %d", cfg.Thresholds.PairInteractions)
	}
	if cfg.Thresholds.HubDegree != 10 {
		t.Errorf("Expected default hub degree 10, got %d", cfg.Thresholds.HubDegree)
	}
	if cfg.PageRank.MaxIterations != 100 {
		t.Errorf("Expected default max iterations 100, got %d", cfg.PageRank.MaxIterations)
	}
	if cfg.Export.Dir != "output" {
		t.Errorf("Expected default export dir, got %q", cfg.Export.Dir)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("thresholds: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"damping above one", "pagerank:\n  damping: 1.5\n"},
		{"negative workers", "workers: -2\n"},
		{"unknown log level", "log_level: verbose\n"},
		{"negative top_n", "export:\n  top_n: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			if _, err := Load(path); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadNormalizesLogLevelCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "WARN" {
		t.Errorf("Expected WARN, got %q", cfg.LogLevel)
	}
}

func TestZeroThresholdsFallBackToDefaults(t *testing.T) {
	content := `
thresholds:
  pair_interactions: 0
  hub_degree: -3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Thresholds.PairInteractions != 5 {
		t.Errorf("Expected zero threshold replaced by default 5, got %d", cfg.Thresholds.PairInteractions)
	}
	if cfg.Thresholds.HubDegree != 10 {
		t.Errorf("Expected negative threshold replaced by default 10, got %d", cfg.Thresholds.HubDegree)
	}
}

func TestAnalysisOptionsMapping(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.PairInteractions = 4
	cfg.Thresholds.HubDegree = 8
	cfg.Thresholds.SharedOfficials = 3
	cfg.Thresholds.MinClusterSize = 4
	cfg.Thresholds.MinCycleLength = 2
	cfg.PageRank.Damping = 0.9
	cfg.PageRank.MaxIterations = 50
	cfg.PageRank.Tolerance = 1e-4
	cfg.Workers = 6

	opts := cfg.AnalysisOptions()

	if opts.PairThreshold != 4 {
		t.Errorf("Expected pair threshold 4, got %d", opts.PairThreshold)
	}
	if opts.HubDegreeThreshold != 8 {
		t.Errorf("Expected hub degree threshold 8, got %d", opts.HubDegreeThreshold)
	}
	if opts.Clusters.SharedOfficials != 3 {
		t.Errorf("Expected shared officials 3, got %d", opts.Clusters.SharedOfficials)
	}
	if opts.Clusters.MinClusterSize != 4 {
		t.Errorf("Expected min cluster size 4, got %d", opts.Clusters.MinClusterSize)
	}
	if opts.Cycles.MinCycleLength != 2 {
		t.Errorf("Expected min cycle length 2, got %d", opts.Cycles.MinCycleLength)
	}
	if opts.PageRank.DampingFactor != 0.9 {
		t.Errorf("Expected damping 0.9, got %f", opts.PageRank.DampingFactor)
	}
	if opts.PageRank.MaxIterations != 50 {
		t.Errorf("Expected 50 max iterations, got %d", opts.PageRank.MaxIterations)
	}
	if opts.PageRank.Tolerance != 1e-4 {
		t.Errorf("Expected tolerance 1e-4, got %g", opts.PageRank.Tolerance)
	}
	if opts.Workers != 6 {
		t.Errorf("Expected 6 workers, got %d", opts.Workers)
	}
}
