// Package config loads and validates the pipeline configuration. Every
// field is optional; zero values fall back to the documented defaults, so
// an absent file yields a fully usable configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/janusai/graftnet/pkg/analysis"
)

// Config is the full pipeline configuration
type Config struct {
	Thresholds ThresholdConfig `yaml:"thresholds"`
	PageRank   PageRankConfig  `yaml:"pagerank"`
	// Workers bounds the analysis worker pool; 0 means GOMAXPROCS
	Workers  int            `yaml:"workers"`
	Export   ExportConfig   `yaml:"export"`
	Database DatabaseConfig `yaml:"database"`
	LogLevel string         `yaml:"log_level"`
}

// ThresholdConfig carries the structural analysis thresholds
type ThresholdConfig struct {
	PairInteractions int `yaml:"pair_interactions"`
	HubDegree        int `yaml:"hub_degree"`
	SharedOfficials  int `yaml:"shared_officials"`
	MinClusterSize   int `yaml:"min_cluster_size"`
	MinCycleLength   int `yaml:"min_cycle_length"`
}

// PageRankConfig carries the PageRank iteration parameters
type PageRankConfig struct {
	Damping       float64 `yaml:"damping"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

// ExportConfig controls where and how results are written
type ExportConfig struct {
	// Dir receives one CSV file per output table
	Dir string `yaml:"dir"`
	// Bundle additionally writes the compressed signal bundle
	Bundle bool `yaml:"bundle"`
	// TopN is how many top-scoring transactions get logged after a run
	TopN int `yaml:"top_n"`
}

// DatabaseConfig points at the optional PostgreSQL signal sink
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// Default returns the configuration used when no file and no flags are given
func Default() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			PairInteractions: analysis.DefaultPairThreshold,
			HubDegree:        analysis.DefaultHubDegreeThreshold,
			SharedOfficials:  analysis.DefaultSharedOfficials,
			MinClusterSize:   analysis.DefaultMinClusterSize,
			MinCycleLength:   analysis.DefaultMinCycleLength,
		},
		PageRank: PageRankConfig{
			Damping:       0.85,
			MaxIterations: 100,
			Tolerance:     1e-6,
		},
		Workers: 0,
		Export: ExportConfig{
			Dir:  "output",
			TopN: 10,
		},
		LogLevel: "INFO",
	}
}

// Load reads the YAML file at path, fills unset fields with defaults, and
// validates the result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults replaces zero or negative fields with their defaults.
// Workers stays as-is: zero is meaningful (GOMAXPROCS).
func (c *Config) applyDefaults() {
	d := Default()

	c.Thresholds.PairInteractions = DefaultOrInt(c.Thresholds.PairInteractions, d.Thresholds.PairInteractions)
	c.Thresholds.HubDegree = DefaultOrInt(c.Thresholds.HubDegree, d.Thresholds.HubDegree)
	c.Thresholds.SharedOfficials = DefaultOrInt(c.Thresholds.SharedOfficials, d.Thresholds.SharedOfficials)
	c.Thresholds.MinClusterSize = DefaultOrInt(c.Thresholds.MinClusterSize, d.Thresholds.MinClusterSize)
	c.Thresholds.MinCycleLength = DefaultOrInt(c.Thresholds.MinCycleLength, d.Thresholds.MinCycleLength)

	c.PageRank.Damping = DefaultOrFloat(c.PageRank.Damping, d.PageRank.Damping)
	c.PageRank.MaxIterations = DefaultOrInt(c.PageRank.MaxIterations, d.PageRank.MaxIterations)
	c.PageRank.Tolerance = DefaultOrFloat(c.PageRank.Tolerance, d.PageRank.Tolerance)

	c.Export.Dir = DefaultOrString(c.Export.Dir, d.Export.Dir)
	c.Export.TopN = DefaultOrInt(c.Export.TopN, d.Export.TopN)

	c.LogLevel = strings.ToUpper(DefaultOrString(c.LogLevel, d.LogLevel))
}

// Validate checks the configuration after defaults have been applied
func (c *Config) Validate() error {
	return NewConfigValidator("config").
		Positive("thresholds.pair_interactions", c.Thresholds.PairInteractions).
		Positive("thresholds.hub_degree", c.Thresholds.HubDegree).
		Positive("thresholds.shared_officials", c.Thresholds.SharedOfficials).
		Positive("thresholds.min_cluster_size", c.Thresholds.MinClusterSize).
		Positive("thresholds.min_cycle_length", c.Thresholds.MinCycleLength).
		RangeFloat("pagerank.damping", c.PageRank.Damping, 0, 1).
		Positive("pagerank.max_iterations", c.PageRank.MaxIterations).
		PositiveFloat("pagerank.tolerance", c.PageRank.Tolerance).
		NonNegative("workers", c.Workers).
		Required("export.dir", c.Export.Dir).
		NonNegative("export.top_n", c.Export.TopN).
		OneOf("log_level", c.LogLevel, []string{"DEBUG", "INFO", "WARN", "ERROR"}).
		Validate()
}

// AnalysisOptions maps the configuration onto the analysis thresholds
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		PairThreshold:      c.Thresholds.PairInteractions,
		HubDegreeThreshold: c.Thresholds.HubDegree,
		Clusters: analysis.ClusterOptions{
			SharedOfficials: c.Thresholds.SharedOfficials,
			MinClusterSize:  c.Thresholds.MinClusterSize,
		},
		Cycles: analysis.CycleOptions{
			MinCycleLength: c.Thresholds.MinCycleLength,
		},
		PageRank: analysis.PageRankOptions{
			DampingFactor: c.PageRank.Damping,
			MaxIterations: c.PageRank.MaxIterations,
			Tolerance:     c.PageRank.Tolerance,
		},
		Workers: c.Workers,
	}
}
