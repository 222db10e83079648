// Package config loads tangle settings from TOML, YAML or JSON files.
package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for tangle.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis" json:"analysis"`

	// Thresholds for coupling and complexity
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds" yaml:"thresholds" json:"thresholds"`

	Complexity ComplexityConfig `koanf:"complexity" toml:"complexity" yaml:"complexity" json:"complexity"`

	Resolver ResolverConfig `koanf:"resolver" toml:"resolver" yaml:"resolver" json:"resolver"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output" json:"output"`
}

// AnalysisConfig controls how files are processed.
type AnalysisConfig struct {
	Workers     int   `koanf:"workers" toml:"workers" yaml:"workers" json:"workers"` // 0 = 2x NumCPU
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size" yaml:"max_file_size" json:"max_file_size"`
}

// ThresholdConfig defines metric thresholds.
type ThresholdConfig struct {
	Complexity int `koanf:"complexity" toml:"complexity" yaml:"complexity" json:"complexity"`
	Coupling   int `koanf:"coupling" toml:"coupling" yaml:"coupling" json:"coupling"`
}

// ComplexityConfig tunes function scoring.
type ComplexityConfig struct {
	IsolateNestedFunctions bool `koanf:"isolate_nested_functions" toml:"isolate_nested_functions" yaml:"isolate_nested_functions" json:"isolate_nested_functions"`
}

// ResolverConfig tunes import resolution.
type ResolverConfig struct {
	// ExternalModules are extra top-level Python modules never resolved locally.
	ExternalModules []string `koanf:"external_modules" toml:"external_modules" yaml:"external_modules" json:"external_modules"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore" json:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl" json:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format" json:"format"` // text, json, markdown, toon, dot
	Color  bool   `koanf:"color" toml:"color" yaml:"color" json:"color"`
}

// DefaultMaxFileSize is the largest file analyzed by default (1 MiB).
const DefaultMaxFileSize = 1 << 20

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers:     0,
			MaxFileSize: DefaultMaxFileSize,
		},
		Thresholds: ThresholdConfig{
			Complexity: 10,
			Coupling:   10,
		},
		Resolver: ResolverConfig{
			ExternalModules: []string{},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"**/*.min.js",
				"**/*.bundle.js",
				"**/*.d.ts",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".tangle",
				"dist",
				"build",
				"__pycache__",
				".venv",
				"venv",
				".tox",
				"site-packages",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".tangle/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configNames are searched in order inside each search directory.
var configNames = []string{
	"tangle.toml",
	"tangle.yaml",
	"tangle.yml",
	"tangle.json",
	".tangle.toml",
	".tangle.yaml",
	".tangle.yml",
	".tangle.json",
}

// Find returns the first config file in dir or dir/.tangle, or "" if none exists.
func Find(dir string) string {
	for _, d := range []string{dir, filepath.Join(dir, ".tangle")} {
		for _, name := range configNames {
			p := filepath.Join(d, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// LoadOrDefault loads the first config file found in dir, falling back to
// defaults. The returned path is empty when defaults are used.
func LoadOrDefault(dir string) (*Config, string, error) {
	p := Find(dir)
	if p == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(p)
	if err != nil {
		return nil, p, err
	}
	return cfg, p, nil
}

// ShouldExclude checks if a root-relative path should be excluded from analysis.
func (c *Config) ShouldExclude(rel string) bool {
	rel = filepath.ToSlash(rel)

	for _, part := range strings.Split(path.Dir(rel), "/") {
		if c.IsExcludedDir(part) {
			return true
		}
	}

	base := path.Base(rel)
	for _, pattern := range c.Exclude.Patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}

	return false
}

// IsExcludedDir reports whether a directory name is in the exclude list.
func (c *Config) IsExcludedDir(name string) bool {
	for _, dir := range c.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}
